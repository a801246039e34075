package props

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/inertia/pkg/domain"
)

// Node is one keyed entry of the tree.
type Node struct {
	Key        string
	Annotation domain.Annotation
	Group      string // deferred group, set only for domain.Deferred
	Value      Value
}

// Object is an insertion-ordered container of nodes.
type Object struct {
	nodes *orderedmap.OrderedMap[string, *Node]
}

// NewObject returns an empty container.
func NewObject() *Object {
	return &Object{nodes: orderedmap.New[string, *Node]()}
}

// Put stores n under n.Key. An existing node with the same key is replaced
// outright but keeps its original position.
func (o *Object) Put(n *Node) {
	o.nodes.Set(n.Key, n)
}

// Get returns the node stored under key.
func (o *Object) Get(key string) (*Node, bool) {
	return o.nodes.Get(key)
}

// Len returns the number of nodes.
func (o *Object) Len() int {
	return o.nodes.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.nodes.Len())
	for pair := o.nodes.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Nodes returns the nodes in insertion order.
func (o *Object) Nodes() []*Node {
	nodes := make([]*Node, 0, o.nodes.Len())
	for pair := o.nodes.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, pair.Value)
	}
	return nodes
}

// Resolve forces every child and returns them as an ordered map.
func (o *Object) Resolve(ctx context.Context) (*orderedmap.OrderedMap[string, any], error) {
	out := orderedmap.New[string, any]()
	for pair := o.nodes.Oldest(); pair != nil; pair = pair.Next() {
		v, err := pair.Value.Value.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
		out.Set(pair.Key, v)
	}
	return out, nil
}
