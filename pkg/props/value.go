package props

import (
	"context"
	"fmt"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindList
	KindPending
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindPending:
		return "pending"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Thunk is an unevaluated computation standing in for a value until forced.
type Thunk func(ctx context.Context) (Value, error)

// Value is a tagged variant. Only the payload matching Kind is meaningful.
// The zero Value is null.
type Value struct {
	kind   Kind
	scalar any
	object *Object
	list   []Value
	thunk  Thunk
}

// NullValue returns an explicit null.
func NullValue() Value {
	return Value{kind: KindNull}
}

// ScalarValue wraps a leaf value. A nil leaf is null.
func ScalarValue(v any) Value {
	if v == nil {
		return NullValue()
	}
	return Value{kind: KindScalar, scalar: v}
}

// ObjectValue wraps a container.
func ObjectValue(o *Object) Value {
	if o == nil {
		return NullValue()
	}
	return Value{kind: KindObject, object: o}
}

// ListValue wraps an ordered sequence of values.
func ListValue(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// PendingValue wraps a thunk that is only run when the value is resolved.
func PendingValue(t Thunk) Value {
	return Value{kind: KindPending, thunk: t}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the leaf payload of a KindScalar value.
func (v Value) Scalar() any { return v.scalar }

// Object returns the container payload of a KindObject value.
func (v Value) Object() *Object { return v.object }

// List returns the items of a KindList value.
func (v Value) List() []Value { return v.list }

// IsNull reports whether the value is an explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Resolve forces the value into plain data ready for JSON encoding.
// Pending thunks are run once, and whatever they yield is resolved in turn.
// Objects become ordered maps and lists become []any.
func (v Value) Resolve(ctx context.Context) (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindScalar:
		return v.scalar, nil
	case KindObject:
		return v.object.Resolve(ctx)
	case KindList:
		out := make([]any, 0, len(v.list))
		for i, item := range v.list {
			resolved, err := item.Resolve(ctx)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, resolved)
		}
		return out, nil
	case KindPending:
		next, err := v.thunk(ctx)
		if err != nil {
			return nil, err
		}
		return next.Resolve(ctx)
	default:
		return nil, fmt.Errorf("unknown value kind %s", v.kind)
	}
}
