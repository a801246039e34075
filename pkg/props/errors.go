package props

import (
	"errors"
	"fmt"

	"github.com/aretw0/inertia/pkg/domain"
)

var (
	// ErrNestedAnnotation is matched by *NestingError.
	ErrNestedAnnotation = errors.New("annotation blocks cannot be nested")

	// ErrPartialNotFound is returned by resolvers that have no partial under the requested name.
	ErrPartialNotFound = errors.New("partial not found")

	// ErrNoResolver is returned when a partial is included but no resolver was configured.
	ErrNoResolver = errors.New("no partial resolver configured")

	// ErrNullRoot is returned when the root scope is marked null.
	ErrNullRoot = errors.New("root props cannot be null")
)

// NestingError is a construction error raised when an annotation block is
// opened while another one is still open.
type NestingError struct {
	Outer domain.Annotation
	Inner domain.Annotation
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("cannot open %s block inside %s block", e.Inner, e.Outer)
}

func (e *NestingError) Unwrap() error { return ErrNestedAnnotation }

// PartialError reports a named sub-tree that could not be resolved or built.
type PartialError struct {
	Name string
	Err  error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial %q: %v", e.Name, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// EvaluationError reports a failure while forcing a surviving top-level prop.
type EvaluationError struct {
	Key string
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate prop %q: %v", e.Key, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
