package middleware

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

type field struct {
	Key        string            `json:"k"`
	Annotation domain.Annotation `json:"a,omitempty"`
	Group      string            `json:"g,omitempty"`
	Value      json.RawMessage   `json:"v"`
}

// snapshot is a partial's output with every value already serialized.
type snapshot struct {
	Null   bool    `json:"null,omitempty"`
	Fields []field `json:"fields,omitempty"`
}

// materialize runs p on a detached copy of s and serializes everything it
// produced, keeping each key's annotation.
func materialize(s props.Scope, p props.Partial, locals any) (*snapshot, error) {
	obj, err := s.Record(func(r props.Scope) error {
		return p(r, locals)
	})
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &snapshot{Null: true}, nil
	}

	snap := &snapshot{Fields: make([]field, 0, obj.Len())}
	for _, n := range obj.Nodes() {
		raw, err := resolveJSON(s.Context(), n.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Key, err)
		}
		snap.Fields = append(snap.Fields, field{
			Key:        n.Key,
			Annotation: n.Annotation,
			Group:      n.Group,
			Value:      raw,
		})
	}
	return snap, nil
}

func resolveJSON(ctx context.Context, v props.Value) (json.RawMessage, error) {
	resolved, err := v.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return raw, nil
}

// apply replays the snapshot onto s as if the partial had run there.
func (snap *snapshot) apply(s props.Scope) error {
	if snap.Null {
		s.Nil()
		return nil
	}
	for _, f := range snap.Fields {
		err := s.Replay(&props.Node{
			Key:        f.Key,
			Annotation: f.Annotation,
			Group:      f.Group,
			Value:      props.ScalarValue(f.Value),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
