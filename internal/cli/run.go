package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/loader"
	"github.com/roach88/compstate/internal/metrics"
	"github.com/roach88/compstate/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Engine   string
	Start    string
	Hooks    bool
	Database string
	Metrics  bool

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// RunStep is one fired input in run output.
type RunStep struct {
	Seq    int          `json:"seq"`
	Input  ir.Input     `json:"input"`
	From   ir.StatePath `json:"from"`
	Result ir.Result    `json:"result"`
	To     ir.StatePath `json:"to"`
	Hooks  []string     `json:"hooks,omitempty"`
}

// RunResult is the output of the run command.
type RunResult struct {
	RunID  string       `json:"run_id,omitempty"`
	Engine string       `json:"engine"`
	Start  ir.StatePath `json:"start"`
	Steps  []RunStep    `json:"steps"`
	Final  ir.StatePath `json:"final"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file> [inputs...]",
		Short: "Fire inputs at a machine",
		Long: `Load a machine document and fire inputs at it, printing each response.

Inputs are taken from the arguments, or read one per line from stdin when
none are given. Blank lines and lines starting with # are skipped.

Example:
  compstate run machines/kiosk.yaml Continue Public Continue
  compstate run machines/kiosk.yaml --engine table --start Login --hooks < inputs.txt
  compstate run machines/kiosk.yaml --record runs.db Continue Public`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachine(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", engine.KindComposite, "engine to run (composite|table)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start path, e.g. Login or A/B")
	cmd.Flags().BoolVar(&opts.Hooks, "hooks", false, "print hook calls")
	cmd.Flags().StringVar(&opts.Database, "record", "", "append the run to this SQLite trace database")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr when done")

	return cmd
}

func runMachine(opts *RunOptions, path string, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inputs := toInputs(args)
	if len(args) == 0 {
		var err error
		if inputs, err = readInputs(cmd.InOrStdin()); err != nil {
			_ = formatter.Error(ErrCodeInvalidInput, fmt.Sprintf("reading inputs: %v", err), nil)
			return WrapExitError(ExitCommandError, "reading inputs", err)
		}
	}

	hooks := &loader.HookLog{}
	cfg, err := loadMachine(path, loader.WithHooks(hooks))
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load document", err)
	}

	// The recorder needs the start path, which is only known once the
	// engine exists.
	var rec *store.Recorder
	engineOpts := []engine.Option{
		engine.WithLogger(opts.logger(cmd)),
		engine.WithObserver(engine.ObserverFunc(func(ev engine.FireEvent) {
			if rec != nil {
				rec.Fired(ev)
			}
		})),
	}
	if start := parseStart(opts.Start); start != nil {
		engineOpts = append(engineOpts, engine.WithStart(start))
	}

	var reg *prometheus.Registry
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		obs, err := metrics.New(reg)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to set up metrics", err)
		}
		engineOpts = append(engineOpts, engine.WithObserver(obs))
	}

	m, table, err := newMachine(opts.Engine, cfg, engineOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to build engine", err)
	}

	result := RunResult{Engine: opts.Engine, Start: m.Path(), Steps: []RunStep{}}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		gen := opts.IDGenerator
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		source, err := filepath.Abs(path)
		if err != nil {
			source = path
		}
		rec, err = st.NewRecorder(ctx, store.Run{
			ID:            gen.Generate(),
			Machine:       machineName(cfg),
			Engine:        opts.Engine,
			Fingerprint:   table.MustFingerprint(),
			Start:         m.Path(),
			Source:        source,
			EngineVersion: ir.EngineVersion,
			TableVersion:  ir.TableVersion,
		}, nil)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to record run", err)
		}
		result.RunID = rec.RunID()
	}

	if !formatter.JSON() {
		fmt.Fprintf(formatter.Writer, "start: %s (%s)\n", result.Start, result.Engine)
	}

	for i, input := range inputs {
		from := m.Path()
		resp := m.Fire(input)
		step := RunStep{Seq: i + 1, Input: input, From: from, Result: resp.Result, To: resp.Path}
		lines := hooks.Take()
		if opts.Hooks {
			step.Hooks = lines
		}
		result.Steps = append(result.Steps, step)
		if !formatter.JSON() {
			printStep(formatter.Writer, step)
		}
	}
	result.Final = m.Path()

	if rec != nil {
		if err := rec.Err(); err != nil {
			return formatter.Fail(ExitCommandError, "failed to record run", err)
		}
	}
	if reg != nil {
		if err := metrics.WriteText(formatter.GetErrWriter(), reg); err != nil {
			return formatter.Fail(ExitCommandError, "failed to write metrics", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "final: %s\n", result.Final)
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "recorded run %s to %s\n", result.RunID, opts.Database)
	}
	return nil
}

func printStep(w io.Writer, s RunStep) {
	if s.Result == ir.Transitioned {
		fmt.Fprintf(w, "[%d] %s: %s -> %s\n", s.Seq, s.Input, s.From, s.To)
	} else {
		fmt.Fprintf(w, "[%d] %s: no action at %s\n", s.Seq, s.Input, s.To)
	}
	for _, line := range s.Hooks {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

func toInputs(args []string) []ir.Input {
	inputs := make([]ir.Input, len(args))
	for i, a := range args {
		inputs[i] = ir.NewInput(a)
	}
	return inputs
}

// readInputs reads one NFC input per line, skipping blanks and # comments.
func readInputs(r io.Reader) ([]ir.Input, error) {
	var inputs []ir.Input
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, ir.NewInput(line))
	}
	return inputs, scanner.Err()
}
