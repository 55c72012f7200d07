// Package errl wraps errors with the stack of the place where they were first seen,
// so handlers can log where a failure came from without losing the wrapped cause.
package errl

import (
	"fmt"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Error attaches a stack trace to err, unless it already carries one.
func Error(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if errors.As(err, &st) {
		return err
	}
	return errors.WithStack(err)
}

// Errorf formats like fmt.Errorf (supporting %w) and attaches a stack trace.
func Errorf(format string, args ...any) error {
	return errors.WithStack(fmt.Errorf(format, args...))
}

// Where returns the file:line of the innermost recorded frame, or "" if err has no stack.
func Where(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		return ""
	}
	for _, f := range st.StackTrace() {
		file := fmt.Sprintf("%s", f)
		if file == "errl.go" {
			continue
		}
		return fmt.Sprintf("%s:%d", f, f)
	}
	return ""
}
