package loader

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Load error codes (E001-E099)
const (
	ErrCodeGeneric       = "E001" // generic/unknown error
	ErrCodeScanError     = "E002" // directory scan error
	ErrCodeNoFiles       = "E003" // no document files found
	ErrCodeLoadFailed    = "E004" // file could not be read or loaded
	ErrCodeNotFound      = "E005" // path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeParseFailed   = "E010" // YAML parse failed
	ErrCodeDecodeFailed  = "E011" // document does not match the expected shape
	ErrCodeUnknownRoot   = "E012" // root names no machine, or is ambiguous
	ErrCodeUnknownSub    = "E013" // sub names no machine
	ErrCodeUnknownFormat = "E014" // file extension not recognized
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError returns true if err is or wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Code returns the LoadError code carried by err, or "".
func Code(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
