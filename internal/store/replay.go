package store

import (
	"context"
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// Divergence is the first fire where a replayed machine disagreed with the
// recording.
type Divergence struct {
	Seq      int64       `json:"seq"`
	Input    ir.Input    `json:"input"`
	Recorded ir.Response `json:"recorded"`
	Replayed ir.Response `json:"replayed"`
}

// ReplayResult summarizes one replay.
type ReplayResult struct {
	RunID      string      `json:"run_id"`
	Steps      int         `json:"steps"`
	Divergence *Divergence `json:"divergence,omitempty"`
}

// Matched reports whether every recorded response was reproduced.
func (r ReplayResult) Matched() bool {
	return r.Divergence == nil
}

// Replay feeds the recorded inputs of runID to m, which must start where
// the run started, and compares every response with the recording.
// It stops at the first divergence.
func (s *Store) Replay(ctx context.Context, runID string, m ir.Machine) (ReplayResult, error) {
	result := ReplayResult{RunID: runID}

	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return result, fmt.Errorf("replay: %w", err)
	}
	if !ir.Equal(m.Path(), run.Start) {
		return result, fmt.Errorf("replay: machine is at %s, run started at %s", m.Path(), run.Start)
	}

	fires, err := s.ReadFires(ctx, runID)
	if err != nil {
		return result, fmt.Errorf("replay: %w", err)
	}

	for _, f := range fires {
		got := m.Fire(f.Input)
		result.Steps++
		want := f.Response()
		if got.Result != want.Result || !ir.Equal(got.Path, want.Path) {
			result.Divergence = &Divergence{Seq: f.Seq, Input: f.Input, Recorded: want, Replayed: got}
			return result, nil
		}
	}
	return result, nil
}
