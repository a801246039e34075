package domain

import "fmt"

// Annotation controls whether a top-level prop survives a given reload.
// It is fixed when the prop is assigned.
type Annotation int

const (
	// Normal props are sent on full loads and when explicitly requested.
	Normal Annotation = iota
	// Always props are sent on every response, partial or not.
	Always
	// Optional props are only sent when a partial reload asks for them.
	Optional
	// Deferred props are skipped on full loads and advertised by group instead.
	Deferred
)

func (a Annotation) String() string {
	switch a {
	case Normal:
		return "normal"
	case Always:
		return "always"
	case Optional:
		return "optional"
	case Deferred:
		return "deferred"
	default:
		return fmt.Sprintf("annotation(%d)", int(a))
	}
}

// MarshalText encodes the annotation by name.
func (a Annotation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an annotation written by MarshalText.
func (a *Annotation) UnmarshalText(text []byte) error {
	for _, candidate := range []Annotation{Normal, Always, Optional, Deferred} {
		if candidate.String() == string(text) {
			*a = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown annotation %q", text)
}
