package middleware

import (
	"context"
	"fmt"
	"regexp"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/inertia/pkg/props"
)

// Mask replaces redacted values.
const Mask = "***"

// NewRedactionMiddleware creates a middleware that masks the values of keys
// matching any of the patterns, at any depth of a partial's output.
// Keys keep their annotations. On the root scope a masked key is never
// evaluated and the others are masked when they are.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns, err := CompilePatterns(patternStrings)
	if err != nil {
		return nil, err
	}

	return func(next props.Resolver) props.Resolver {
		return resolverFunc(func(name string) (props.Partial, error) {
			p, err := next.Lookup(name)
			if err != nil {
				return nil, err
			}
			return func(s props.Scope, locals any) error {
				return redact(s, p, locals, patterns)
			}, nil
		})
	}, nil
}

// CompilePatterns compiles redaction patterns, reporting the first invalid one.
func CompilePatterns(patternStrings []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return patterns, nil
}

func redact(s props.Scope, p props.Partial, locals any, patterns []*regexp.Regexp) error {
	obj, err := s.Record(func(r props.Scope) error {
		return p(r, locals)
	})
	if err != nil {
		return err
	}
	if obj == nil {
		s.Nil()
		return nil
	}

	for _, n := range obj.Nodes() {
		masked := *n
		if matches(n.Key, patterns) {
			masked.Value = props.ScalarValue(Mask)
		} else {
			masked.Value = maskedValue(n.Value, patterns)
			if !s.IsRoot() {
				v, err := masked.Value.Resolve(s.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", n.Key, err)
				}
				masked.Value = props.ScalarValue(v)
			}
		}
		if err := s.Replay(&masked); err != nil {
			return err
		}
	}
	return nil
}

// maskedValue defers masking v until it is resolved.
func maskedValue(v props.Value, patterns []*regexp.Regexp) props.Value {
	return props.PendingValue(func(ctx context.Context) (props.Value, error) {
		resolved, err := v.Resolve(ctx)
		if err != nil {
			return props.Value{}, err
		}
		maskValue(resolved, patterns)
		return props.ScalarValue(resolved), nil
	})
}

func maskMap(m *orderedmap.OrderedMap[string, any], patterns []*regexp.Regexp) {
	if m == nil {
		return
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if matches(pair.Key, patterns) {
			pair.Value = Mask
			continue
		}
		maskValue(pair.Value, patterns)
	}
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch val := v.(type) {
	case *orderedmap.OrderedMap[string, any]:
		maskMap(val, patterns)
	case []any:
		for _, item := range val {
			maskValue(item, patterns)
		}
	}
}

func matches(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
