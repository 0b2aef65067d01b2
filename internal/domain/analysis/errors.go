package analysis

import (
	"errors"
	"fmt"
)

// ErrFormNotFound indicates the referenced filled form does not exist.
var ErrFormNotFound = errors.New("form not found")

// ErrNotFound indicates no cached analysis exists for the key.
var ErrNotFound = errors.New("analysis not found")

// MalformedOutputError reports model text that could not be decoded into
// the required schema, or decoded with a required field missing.
type MalformedOutputError struct {
	Reason string
	Err    error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model output: %s: %v", e.Reason, e.Err)
	}
	return "malformed model output: " + e.Reason
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
