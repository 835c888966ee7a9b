package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool       `json:"valid"`
	File     string     `json:"file"`
	Machines int        `json:"machines,omitempty"`
	Leaves   int        `json:"leaves,omitempty"`
	Errors   []CLIError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a machine document",
		Long: `Validate a YAML or CUE machine document without running it.

Every defect is reported, not just the first: unknown start and target
states, duplicate ids and inputs, empty machines and sub-machine cycles.

Exit codes:
  0 - Document is valid
  1 - Document has configuration errors
  2 - Document could not be read or parsed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := loader.ParseFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load document", err)
	}
	formatter.VerboseLog("Loaded %d machine(s) from %s", len(doc.Machines), path)

	result := ValidationResult{File: path, Machines: len(doc.Machines)}

	cfg, err := doc.Build()
	if err != nil {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			return formatter.Fail(ExitCommandError, "failed to build document", err)
		}
		result.Errors = append(result.Errors, CLIError{Code: le.Code, Message: le.Error()})
		return outputValidation(formatter, result)
	}

	for _, ce := range compiler.Validate(cfg) {
		result.Errors = append(result.Errors, CLIError{Code: ce.Code, Message: ce.Error()})
	}
	if len(result.Errors) == 0 {
		table, err := compiler.Compile(cfg)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to compile document", err)
		}
		result.Leaves = table.Len()
	}

	return outputValidation(formatter, result)
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	result.Valid = len(result.Errors) == 0

	if formatter.JSON() {
		status := "ok"
		var first *CLIError
		if !result.Valid {
			status = "error"
			first = &result.Errors[0]
		}
		if err := formatter.encode(CLIResponse{Status: status, Data: result, Error: first}); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %s is valid: %d machine(s), %d leaf state(s)\n",
			result.File, result.Machines, result.Leaves)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s has %d error(s)\n\n", result.File, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}
