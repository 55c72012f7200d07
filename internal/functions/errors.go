package functions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when the endpoint for an operation is not set.
var ErrNotConfigured = errors.New("remote function not configured")

// StatusError is returned when a function answers with a non-success status.
// The body of the response is not inspected.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: remote function answered with status %d", e.Op, e.StatusCode)
}

// RejectedError is returned when the generation function refuses the submitted data.
type RejectedError struct {
	Message string
	Fields  []string
}

func (e *RejectedError) Error() string {
	if len(e.Fields) == 0 {
		return "generation rejected: " + e.Message
	}
	return fmt.Sprintf("generation rejected: %s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// RejectedFields returns the keys of the fields refused by the remote side.
func (e *RejectedError) RejectedFields() []string {
	return e.Fields
}
