package analysis

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the model provider returned a quota/limit error
// (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("model quota exceeded")

// ValidationError marks a missing or invalid request field. Surfaced as a
// client error; no downstream work is performed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ModelError wraps a failed generative call. This is the one pipeline failure
// that propagates as a server error; everything downstream of the call is
// skipped.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
