package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/compstate/internal/compiler"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Flatten a machine document into a transition table",
		Long: `Compile a hierarchical machine document into a flat table of leaf states.

Text output lists every leaf state with its transitions and the hook steps
each transition runs. JSON output (and --output) carries the same table with
its fingerprint.

Examples:
  compstate compile machines/kiosk.yaml
  compstate compile machines/kiosk.yaml -o kiosk.table.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadMachine(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load document", err)
	}

	table, err := compiler.Compile(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, "compilation failed", err)
	}
	view, err := compiler.View(table)
	if err != nil {
		return formatter.Fail(ExitCommandError, "compilation failed", err)
	}
	formatter.VerboseLog("Compiled %s: %d leaf state(s), fingerprint %s", path, table.Len(), view.Fingerprint)

	if opts.Output != "" {
		if err := writeTableToFile(view, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(view)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s\n\n", path)
	fmt.Fprint(formatter.Writer, compiler.Describe(table))
	fmt.Fprintf(formatter.Writer, "\nfingerprint: %s\n", view.Fingerprint)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote table to %s\n", opts.Output)
	}
	return nil
}

// writeTableToFile writes the table view as indented JSON.
// Canonical JSON without indentation is used only for the fingerprint.
func writeTableToFile(view *compiler.TableView, filename string) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling table: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
