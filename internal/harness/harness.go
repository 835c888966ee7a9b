package harness

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/loader"
	"github.com/roach88/compstate/internal/logging"
	"github.com/roach88/compstate/internal/testutil"
)

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger passed to both engines. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Harness drives one composite and one table engine built from the same
// machine document. Each engine gets its own hook log.
type Harness struct {
	composite *engine.Composite
	table     *engine.Table
	hooks     *loader.HookLog
	tableHook *loader.HookLog
	clock     *testutil.DeterministicClock
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution errors (unreadable document, invalid configuration, bad start
// path) are returned as errors. Engine disagreement and unmet expectations
// are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h, err := newHarness(scenario, opts)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	h.executeSteps(scenario.Steps, result)
	result.Final = h.composite.Path()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(scenario *Scenario, opts []Option) (*Harness, error) {
	h := &Harness{
		hooks:     &loader.HookLog{},
		tableHook: &loader.HookLog{},
		clock:     testutil.NewDeterministicClock(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	doc, err := loader.ParseFile(scenario.Machine)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	compositeCfg, err := doc.Build(loader.WithHooks(h.hooks))
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	tableCfg, err := doc.Build(loader.WithHooks(h.tableHook))
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}

	engineOpts := []engine.Option{engine.WithLogger(h.logger)}
	if scenario.Start != "" {
		engineOpts = append(engineOpts, engine.WithStart(ir.ParsePath(scenario.Start)))
	}

	h.composite, err = engine.NewComposite(compositeCfg, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build composite engine: %w", err)
	}
	table, err := compiler.Compile(tableCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile machine: %w", err)
	}
	h.table, err = engine.NewTable(table, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table engine: %w", err)
	}

	if !h.composite.Path().Equal(h.table.Path()) {
		return nil, fmt.Errorf("engines start apart: composite at %s, table at %s",
			h.composite.Path(), h.table.Path())
	}
	return h, nil
}

// executeSteps fires every step at both engines and checks expectations.
func (h *Harness) executeSteps(steps []Step, result *Result) {
	for i, step := range steps {
		input := ir.NewInput(step.Input)
		from := h.composite.Path()

		got := h.composite.Fire(input)
		hooks := nonNil(h.hooks.Take())
		tableGot := h.table.Fire(input)
		tableHooks := nonNil(h.tableHook.Take())

		ev := TraceEvent{
			Seq:        h.clock.Next(),
			Input:      input,
			From:       from,
			Result:     got.Result,
			To:         got.Path,
			Hooks:      hooks,
			TableHooks: tableHooks,
		}
		result.Trace = append(result.Trace, ev)

		if got.Result != tableGot.Result || !got.Path.Equal(tableGot.Path) {
			result.AddError(fmt.Sprintf("step %d (%s): engines disagree: composite %s %s, table %s %s",
				i, input, got.Result, got.Path, tableGot.Result, tableGot.Path))
		}

		if step.Expect != nil {
			checkExpect(i, ev, step.Expect, result)
		}

		h.logger.Debug("scenario step",
			"step", i,
			"input", input,
			"from", from,
			"to", got.Path,
			"result", got.Result,
		)
	}
}

// checkExpect compares one step against its expect clause.
func checkExpect(i int, ev TraceEvent, want *ExpectClause, result *Result) {
	if want.Result != "" && want.Result != ev.Result.String() {
		result.AddError(fmt.Sprintf("step %d (%s): expected result %s, got %s", i, ev.Input, want.Result, ev.Result))
	}
	if want.Path != "" && !ir.ParsePath(want.Path).Equal(ev.To) {
		result.AddError(fmt.Sprintf("step %d (%s): expected path %s, got %s", i, ev.Input, want.Path, ev.To))
	}
	if want.Hooks != nil && !slices.Equal(want.Hooks, ev.Hooks) {
		result.AddError(fmt.Sprintf("step %d (%s): expected hooks %q, got %q", i, ev.Input, want.Hooks, ev.Hooks))
	}
	if want.TableHooks != nil && !slices.Equal(want.TableHooks, ev.TableHooks) {
		result.AddError(fmt.Sprintf("step %d (%s): expected table hooks %q, got %q", i, ev.Input, want.TableHooks, ev.TableHooks))
	}
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
