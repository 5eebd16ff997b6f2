package analysis

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means the model output contained no JSON object at
// all, not even a malformed one.
var ErrMalformedResponse = errors.New("no JSON object found in model response")

// ParseError wraps a JSON syntax failure that survived normalization. It is
// surfaced to the caller and never retried.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SubjectNotFoundError is the model's own refusal signal: the video contains
// no analyzable subject. It carries the model's message verbatim and is a
// normal negative outcome, not a system fault.
type SubjectNotFoundError struct {
	Message string
}

func (e *SubjectNotFoundError) Error() string { return e.Message }

// ValidationError names a missing or invalid field in a refine request.
// Fatal for that request; never silently defaulted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
