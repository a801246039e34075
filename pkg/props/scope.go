package props

import (
	"context"
	"fmt"

	"github.com/aretw0/inertia/pkg/domain"
)

// BuildFunc populates a scope.
type BuildFunc func(s Scope) error

// Partial is a named sub-tree. It merges its keys into the scope it is
// invoked on, reading whatever it needs from locals.
type Partial func(s Scope, locals any) error

// Resolver finds partials by name.
type Resolver interface {
	// Lookup returns the partial registered under name.
	// Implementations return an error matching ErrPartialNotFound when there is none.
	Lookup(name string) (Partial, error)
}

// frame is the container a scope is filling.
type frame struct {
	object *Object
	null   bool
}

func newFrame() *frame {
	return &frame{object: NewObject()}
}

func (f *frame) value() Value {
	if f.null {
		return NullValue()
	}
	return ObjectValue(f.object)
}

// Scope is the immutable build context handed to every BuildFunc.
// Opening a block derives a new Scope, so nothing has to be restored when
// the block returns.
type Scope struct {
	ctx        context.Context
	frame      *frame
	resolver   Resolver
	annotation domain.Annotation
	group      string
	root       bool
}

// Context returns the context of the current build or evaluation pass.
func (s Scope) Context() context.Context { return s.ctx }

// IsRoot reports whether assignments on s are top-level props.
func (s Scope) IsRoot() bool { return s.root }

// Annotation returns the annotation block currently open, or domain.Normal.
func (s Scope) Annotation() domain.Annotation { return s.annotation }

// Assignment selects how a key's value is produced. Use Scalar, Lazy,
// Nested, Null or Collection to build one.
type Assignment struct {
	compute func(s Scope, ctx context.Context) (Value, error)
}

// Scalar assigns a leaf value.
func Scalar(v any) Assignment {
	return Assignment{compute: func(Scope, context.Context) (Value, error) {
		return ScalarValue(v), nil
	}}
}

// Lazy assigns the result of fn. On the root scope fn only runs if the key survives filtering.
func Lazy(fn func(ctx context.Context) (any, error)) Assignment {
	return Assignment{compute: func(_ Scope, ctx context.Context) (Value, error) {
		v, err := fn(ctx)
		if err != nil {
			return Value{}, err
		}
		return ScalarValue(v), nil
	}}
}

// Nested assigns the container built by fn in a fresh child scope.
func Nested(fn BuildFunc) Assignment {
	return Assignment{compute: func(s Scope, ctx context.Context) (Value, error) {
		return s.child(ctx).build(fn)
	}}
}

// Null assigns an explicit null.
func Null() Assignment {
	return Assignment{compute: func(Scope, context.Context) (Value, error) {
		return NullValue(), nil
	}}
}

// Collection assigns one container per item, each built by fn in its own child scope.
func Collection[T any](items []T, fn func(s Scope, item T) error) Assignment {
	return Assignment{compute: func(s Scope, ctx context.Context) (Value, error) {
		list := make([]Value, 0, len(items))
		for i, item := range items {
			v, err := s.child(ctx).build(func(c Scope) error {
				return fn(c, item)
			})
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			list = append(list, v)
		}
		return ListValue(list), nil
	}}
}

// Assign stores key on the current scope. On the root scope the value is
// kept as a pending thunk; anywhere else it is computed immediately.
func (s Scope) Assign(key string, a Assignment) error {
	if s.root {
		s.put(key, PendingValue(func(ctx context.Context) (Value, error) {
			return a.compute(s, ctx)
		}))
		return nil
	}
	v, err := a.compute(s, s.ctx)
	if err != nil {
		return err
	}
	s.put(key, v)
	return nil
}

// Set assigns a scalar value.
func (s Scope) Set(key string, v any) {
	_ = s.Assign(key, Scalar(v))
}

// SetFunc assigns the value computed by fn.
func (s Scope) SetFunc(key string, fn func(ctx context.Context) (any, error)) error {
	return s.Assign(key, Lazy(fn))
}

// SetNull assigns an explicit null leaf.
func (s Scope) SetNull(key string) {
	_ = s.Assign(key, Null())
}

// Block assigns the container built by fn.
func (s Scope) Block(key string, fn BuildFunc) error {
	return s.Assign(key, Nested(fn))
}

// Nil marks the container being built by s as an explicit null, whatever
// else has been assigned to it.
func (s Scope) Nil() {
	s.frame.null = true
}

// Partial resolves the named sub-tree and merges it into the current scope.
func (s Scope) Partial(name string, locals any) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := p(s, locals); err != nil {
		return &PartialError{Name: name, Err: err}
	}
	return nil
}

// Capture builds fn in a detached child scope and returns the resulting value
// (an object, or null if fn called Nil). Nothing is assigned on s.
func (s Scope) Capture(fn BuildFunc) (Value, error) {
	return s.child(s.ctx).build(fn)
}

// Record runs fn on a detached container that otherwise behaves like s:
// on the root scope values stay pending and open annotations are kept on
// every node. It returns the recorded container, or nil if fn called Nil.
// Nothing is assigned on s; see Replay.
func (s Scope) Record(fn BuildFunc) (*Object, error) {
	r := s
	r.frame = newFrame()
	if err := fn(r); err != nil {
		return nil, err
	}
	if r.frame.null {
		return nil, nil
	}
	return r.frame.object, nil
}

// Replay stores a copy of n on s. A normal node takes the annotation open
// on s. An annotated node keeps its own, which must match the one open on s.
func (s Scope) Replay(n *Node) error {
	cp := *n
	switch {
	case n.Annotation == domain.Normal:
		cp.Annotation = s.annotation
		cp.Group = ""
		if s.annotation == domain.Deferred {
			cp.Group = s.group
		}
	case s.annotation != domain.Normal && s.annotation != n.Annotation:
		return &NestingError{Outer: s.annotation, Inner: n.Annotation}
	}
	s.frame.object.Put(&cp)
	return nil
}

// Always tags every key assigned by fn as sent on every response.
//
// Opening a block inside another one is an error. Inside a Block assigned on
// the root scope it is only reported once that key is evaluated, so whether
// a render fails can depend on the reload mode; see Evaluate.
func (s Scope) Always(fn BuildFunc) error {
	return s.annotate(domain.Always, "", fn)
}

// Optional tags every key assigned by fn as sent only when requested.
func (s Scope) Optional(fn BuildFunc) error {
	return s.annotate(domain.Optional, "", fn)
}

// Defer tags every key assigned by fn as deferred to a follow-up request in
// group. An empty group means domain.DefaultGroup.
func (s Scope) Defer(group string, fn BuildFunc) error {
	if group == "" {
		group = domain.DefaultGroup
	}
	return s.annotate(domain.Deferred, group, fn)
}

func (s Scope) annotate(a domain.Annotation, group string, fn BuildFunc) error {
	if s.annotation != domain.Normal {
		return &NestingError{Outer: s.annotation, Inner: a}
	}
	inner := s
	inner.annotation = a
	inner.group = group
	return fn(inner)
}

func (s Scope) put(key string, v Value) {
	n := &Node{Key: key, Annotation: s.annotation, Value: v}
	if s.annotation == domain.Deferred {
		n.Group = s.group
	}
	s.frame.object.Put(n)
}

func (s Scope) child(ctx context.Context) Scope {
	c := s
	c.ctx = ctx
	c.frame = newFrame()
	c.root = false
	return c
}

func (s Scope) build(fn BuildFunc) (Value, error) {
	if err := fn(s); err != nil {
		return Value{}, err
	}
	return s.frame.value(), nil
}

func (s Scope) lookup(name string) (Partial, error) {
	if s.resolver == nil {
		return nil, &PartialError{Name: name, Err: ErrNoResolver}
	}
	p, err := s.resolver.Lookup(name)
	if err != nil {
		return nil, &PartialError{Name: name, Err: err}
	}
	return p, nil
}

// Builder runs the build pass of one render.
type Builder struct {
	resolver Resolver
}

// NewBuilder creates a builder that resolves partials with resolver (which may be nil).
func NewBuilder(resolver Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build runs fn on a fresh root scope and returns the root container.
// Top-level values are left pending; see Evaluate.
func (b *Builder) Build(ctx context.Context, fn BuildFunc) (*Object, error) {
	root := Scope{
		ctx:      ctx,
		frame:    newFrame(),
		resolver: b.resolver,
		root:     true,
	}
	if err := fn(root); err != nil {
		return nil, err
	}
	if root.frame.null {
		return nil, ErrNullRoot
	}
	return root.frame.object, nil
}
