package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// StartError reports a start override that does not address a state, or a
// table with no states to start in.
type StartError struct {
	// Path is the requested start, if any.
	Path ir.StatePath

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *StartError) Error() string {
	if e.Path != nil {
		return fmt.Sprintf("invalid start %q: %s", e.Path.String(), e.Message)
	}
	return fmt.Sprintf("invalid start: %s", e.Message)
}

// IsStartError returns true if err is or wraps a StartError.
func IsStartError(err error) bool {
	var se *StartError
	return errors.As(err, &se)
}
