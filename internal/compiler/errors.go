package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/compstate/internal/ir"
)

// Configuration error codes (E200-E299)
const (
	ErrNilMachine     = "E201" // nil machine configuration
	ErrNoStates       = "E202" // machine declares no states
	ErrEmptyStateID   = "E203" // state id is empty
	ErrDuplicateState = "E204" // duplicate state id within one level
	ErrUnknownStart   = "E205" // start names an unknown state
	ErrUnknownTarget  = "E206" // transition target names an unknown state
	ErrDuplicateInput = "E207" // two edges for the same input on one state
	ErrReferenceCycle = "E208" // sub-machine references form a cycle
)

// ConfigError describes one defect in a machine configuration.
//
// Configuration errors are raised by Validate, Compile and engine
// construction, never by Fire. Retrying without changing the configuration
// reproduces the same error.
type ConfigError struct {
	Code    string     `json:"code"`
	Machine string     `json:"machine,omitempty"` // machine label or position
	State   ir.StateID `json:"state,omitempty"`
	Input   ir.Input   `json:"input,omitempty"`
	Message string     `json:"message"`
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var ctx []string
	if e.Machine != "" {
		ctx = append(ctx, "machine="+e.Machine)
	}
	if e.State != "" {
		ctx = append(ctx, "state="+string(e.State))
	}
	if e.Input != "" {
		ctx = append(ctx, "input="+string(e.Input))
	}
	if len(ctx) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(ctx, ", "))
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// HasCode returns true if err is or wraps a ConfigError with the given code.
// Joined errors are searched as well.
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
	}
	return false
}

// joinErrors folds validation results into a single error, or nil.
func joinErrors(errs []ConfigError) error {
	if len(errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(errs))
	for i := range errs {
		wrapped[i] = &errs[i]
	}
	return errors.Join(wrapped...)
}
