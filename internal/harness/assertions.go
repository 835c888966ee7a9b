package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/compstate/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the visited paths to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s: %s -> %s (%s)\n", ev.Seq, ev.Input, ev.From, ev.To, ev.Result)
	}

	return buf.String()
}

// assertVisits checks that some step ended at the path.
func assertVisits(result *Result, a Assertion) error {
	want := ir.ParsePath(a.Path)
	for _, p := range result.Visited() {
		if p.Equal(want) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertVisits,
		Expected: fmt.Sprintf("a step ending at %s", want),
		Actual:   "not found in trace",
		Trace:    result.Trace,
	}
}

// assertVisitOrder checks that the paths were reached in order.
// Visits need not be consecutive; each path is matched after the previous one.
func assertVisitOrder(result *Result, a Assertion) error {
	visited := result.Visited()
	pos := 0
	for _, s := range a.Paths {
		want := ir.ParsePath(s)
		found := false
		for pos < len(visited) {
			pos++
			if visited[pos-1].Equal(want) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertVisitOrder,
				Expected: fmt.Sprintf("paths in order: %v", a.Paths),
				Actual:   fmt.Sprintf("%s not reached in order", want),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertVisitCount checks that the path was reached exactly Count times.
func assertVisitCount(result *Result, a Assertion) error {
	want := ir.ParsePath(a.Path)
	count := 0
	for _, ev := range result.Trace {
		if ev.Result == ir.Transitioned && ev.To.Equal(want) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertVisitCount,
			Expected: fmt.Sprintf("%d transitions into %s", a.Count, want),
			Actual:   fmt.Sprintf("%d transitions", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalPath checks where the machine ended.
func assertFinalPath(result *Result, a Assertion) error {
	want := ir.ParsePath(a.Path)
	if !result.Final.Equal(want) {
		return &AssertionError{
			Type:     AssertFinalPath,
			Expected: want.String(),
			Actual:   result.Final.String(),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertVisits:
			err = assertVisits(result, a)
		case AssertVisitOrder:
			err = assertVisitOrder(result, a)
		case AssertVisitCount:
			err = assertVisitCount(result, a)
		case AssertFinalPath:
			err = assertFinalPath(result, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
