package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/compstate/internal/engine"
)

// Recorder appends every fire of one run to the store. Register it with
// engine.WithObserver.
//
// Observer callbacks cannot return errors, so the first write error is
// kept and reported by Err; later fires are dropped.
type Recorder struct {
	store *Store
	ctx   context.Context
	runID string
	clock Clock

	mu  sync.Mutex
	err error
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder writes run and returns a recorder for its fires.
// A nil clock uses a fresh LogicalClock.
func (s *Store) NewRecorder(ctx context.Context, run Run, clock Clock) (*Recorder, error) {
	if run.ID == "" {
		return nil, fmt.Errorf("new recorder: run id is empty")
	}
	if err := s.WriteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	if clock == nil {
		clock = NewClock()
	}
	return &Recorder{store: s, ctx: ctx, runID: run.ID, clock: clock}, nil
}

// Fired implements engine.Observer.
func (r *Recorder) Fired(ev engine.FireEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.err = r.store.WriteFire(r.ctx, Fire{
		RunID:  r.runID,
		Seq:    r.clock.Next(),
		Input:  ev.Input,
		From:   ev.From,
		Result: ev.Response.Result,
		To:     ev.Response.Path,
	})
}

// RunID returns the id of the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
