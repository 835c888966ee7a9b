package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/store"
)

// TraceResult holds one run and its fires.
type TraceResult struct {
	Run   store.Run    `json:"run"`
	Fires []store.Fire `json:"fires"`
	Stats TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for a run.
type TraceStats struct {
	Fires        int `json:"fires"`
	Transitioned int `json:"transitioned"`
	NoAction     int `json:"no_action"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <db> [run-id]",
		Short: "List recorded runs or show one run",
		Long: `Query a trace database written by run --record.

Without a run id, every run is listed with its fire count. With a run id,
the run's fires are printed in order.

Examples:
  compstate trace runs.db
  compstate trace runs.db 0190a4c2-7f6e-7c4a-9b1e-3f2d5a6b7c8d
  compstate trace runs.db --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runTraceList(rootOpts, args[0], cmd)
			}
			return runTrace(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runTraceList(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := context.Background()

	st, err := openExisting(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to list runs", err)
	}

	if formatter.JSON() {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tMACHINE\tENGINE\tSTART\tFIRES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Machine, r.Engine, r.Start, r.Fires)
	}
	return tw.Flush()
}

func runTrace(opts *RootOptions, dbPath, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := context.Background()

	st, err := openExisting(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read run", err)
	}
	fires, err := st.ReadFires(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read fires", err)
	}

	result := TraceResult{Run: run, Fires: fires, Stats: TraceStats{Fires: len(fires)}}
	for _, f := range fires {
		if f.Result == ir.Transitioned {
			result.Stats.Transitioned++
		} else {
			result.Stats.NoAction++
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  machine:     %s (%s)\n", run.Machine, run.Engine)
	fmt.Fprintf(w, "  start:       %s\n", run.Start)
	fmt.Fprintf(w, "  fingerprint: %s\n", run.Fingerprint)
	if run.Source != "" {
		fmt.Fprintf(w, "  source:      %s\n", run.Source)
	}
	fmt.Fprintln(w)
	for _, f := range fires {
		printStep(w, RunStep{Seq: int(f.Seq), Input: f.Input, From: f.From, Result: f.Result, To: f.To})
	}
	fmt.Fprintf(w, "\n%d fire(s): %d transitioned, %d no action\n",
		result.Stats.Fires, result.Stats.Transitioned, result.Stats.NoAction)
	return nil
}
