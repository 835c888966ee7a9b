package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Machine string // overrides the document path recorded with the run
}

// EngineReplay is the replay outcome for one engine kind.
type EngineReplay struct {
	Engine     string            `json:"engine"`
	Steps      int               `json:"steps"`
	Matched    bool              `json:"matched"`
	Divergence *store.Divergence `json:"divergence,omitempty"`
}

// ReplayResult holds the result of replaying one run through both engines.
type ReplayResult struct {
	RunID            string         `json:"run_id"`
	Machine          string         `json:"machine"`
	FingerprintMatch bool           `json:"fingerprint_match"`
	Engines          []EngineReplay `json:"engines"`
	Deterministic    bool           `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <db> <run-id>",
		Short: "Replay a recorded run through both engines",
		Long: `Re-drive the inputs of a recorded run through a composite and a table
engine built from the machine document, and compare every response with the
recording.

The document recorded with the run is used unless --machine is given.

Exit codes:
  0 - Both engines reproduced the recording
  1 - An engine diverged from the recording
  2 - Command error (database, run or document not found)

Example:
  compstate replay runs.db 0190a4c2-7f6e-7c4a-9b1e-3f2d5a6b7c8d
  compstate replay runs.db 0190a4c2-7f6e-7c4a-9b1e-3f2d5a6b7c8d --machine kiosk.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Machine, "machine", "", "machine document to replay against")

	return cmd
}

func runReplay(opts *ReplayOptions, dbPath, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read run", err)
	}

	path := opts.Machine
	if path == "" {
		path = run.Source
	}
	if path == "" {
		err := errors.New("run has no recorded document; pass --machine")
		return formatter.Fail(ExitCommandError, "no machine document", err)
	}

	result := ReplayResult{RunID: runID, Machine: path, Deterministic: true}

	for _, kind := range EngineKinds {
		// Each engine gets a fresh configuration so no state is shared.
		cfg, err := loadMachine(path)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to load document", err)
		}
		m, table, err := newMachine(kind, cfg,
			engine.WithStart(run.Start),
			engine.WithLogger(opts.logger(cmd)),
		)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to build engine", err)
		}
		if kind == engine.KindComposite {
			result.FingerprintMatch = table.MustFingerprint() == run.Fingerprint
			if !result.FingerprintMatch {
				formatter.VerboseLog("warning: %s changed since run %s was recorded", path, runID)
			}
		}

		replayed, err := st.Replay(ctx, runID, m)
		if err != nil {
			return formatter.Fail(ExitCommandError, "replay failed", err)
		}
		result.Engines = append(result.Engines, EngineReplay{
			Engine:     kind,
			Steps:      replayed.Steps,
			Matched:    replayed.Matched(),
			Divergence: replayed.Divergence,
		})
		if !replayed.Matched() {
			result.Deterministic = false
		}
	}

	return outputReplay(formatter, result)
}

// openExisting opens a trace database that must already exist.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: no such file", path)
	}
	return store.Open(path)
}

func outputReplay(formatter *OutputFormatter, result ReplayResult) error {
	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Deterministic {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeDivergence, Message: "replay diverged from the recording"}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "Replaying run %s against %s\n", result.RunID, result.Machine)
		if !result.FingerprintMatch {
			fmt.Fprintln(w, "  warning: machine fingerprint differs from the recording")
		}
		for _, e := range result.Engines {
			if e.Matched {
				fmt.Fprintf(w, "✓ %s: %d step(s) reproduced\n", e.Engine, e.Steps)
				continue
			}
			d := e.Divergence
			fmt.Fprintf(w, "✗ %s: diverged at seq %d (%s)\n", e.Engine, d.Seq, d.Input)
			fmt.Fprintf(w, "    recorded: %s %s\n", d.Recorded.Result, d.Recorded.Path)
			fmt.Fprintf(w, "    replayed: %s %s\n", d.Replayed.Result, d.Replayed.Path)
		}
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "replay diverged from the recording")
	}
	return nil
}
