package props

import (
	"context"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/inertia/pkg/domain"
)

// Result is the filtered, fully evaluated output of a property tree.
type Result struct {
	// Props holds the surviving top-level keys in insertion order.
	Props *orderedmap.OrderedMap[string, any]

	// DeferredProps maps each deferred group to its keys. It is nil unless the
	// reload advertises deferred props and at least one exists.
	DeferredProps *orderedmap.OrderedMap[string, []string]
}

// DeferredCount returns the number of advertised deferred keys.
func (r *Result) DeferredCount() int {
	if r.DeferredProps == nil {
		return 0
	}
	n := 0
	for pair := r.DeferredProps.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}

// EvaluateOption configures Evaluate.
type EvaluateOption func(*evaluator)

// WithHooks reports every evaluated prop to hooks.OnPropEvaluated.
func WithHooks(hooks domain.LifecycleHooks) EvaluateOption {
	return func(e *evaluator) {
		e.hooks = hooks
	}
}

type evaluator struct {
	hooks domain.LifecycleHooks
}

// Evaluate applies the reload policy to the top-level keys of root and forces
// the survivors. Keys that are filtered out are never evaluated. The first
// failure aborts the whole evaluation and no partial result is returned.
//
// The caller is expected to have resolved mode against the rendered
// component (see domain.ReloadMode.For).
func Evaluate(ctx context.Context, root *Object, mode domain.ReloadMode, opts ...EvaluateOption) (*Result, error) {
	e := &evaluator{}
	for _, opt := range opts {
		opt(e)
	}

	res := &Result{Props: orderedmap.New[string, any]()}

	for _, n := range root.Nodes() {
		if !mode.Includes(n.Key, n.Annotation) {
			if n.Annotation == domain.Deferred && mode.Advertises() {
				res.advertise(n)
			}
			continue
		}

		v, err := e.force(ctx, n)
		if err != nil {
			return nil, &EvaluationError{Key: n.Key, Err: err}
		}
		res.Props.Set(n.Key, v)
	}

	return res, nil
}

func (e *evaluator) force(ctx context.Context, n *Node) (any, error) {
	start := time.Now()
	v, err := n.Value.Resolve(ctx)
	if e.hooks.OnPropEvaluated != nil {
		e.hooks.OnPropEvaluated(ctx, &domain.PropEvent{
			EventBase: domain.EventBase{
				Timestamp: start,
				Type:      domain.EventPropEvaluated,
			},
			Key:        n.Key,
			Annotation: n.Annotation,
			Duration:   time.Since(start),
			IsError:    err != nil,
		})
	}
	return v, err
}

func (r *Result) advertise(n *Node) {
	if r.DeferredProps == nil {
		r.DeferredProps = orderedmap.New[string, []string]()
	}
	group := n.Group
	if group == "" {
		group = domain.DefaultGroup
	}
	keys, _ := r.DeferredProps.Get(group)
	r.DeferredProps.Set(group, append(keys, n.Key))
}
