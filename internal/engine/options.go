package engine

import (
	"log/slog"

	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/logging"
)

// Option configures an engine at construction.
type Option func(*options)

type options struct {
	start     ir.StatePath
	logger    *slog.Logger
	observers []Observer
}

func newOptions(opts []Option) *options {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithStart overrides the declared start. path is a prefix from the root:
// levels it does not name start at their declared start state.
// A nil path keeps the declared start; an empty path is rejected.
func WithStart(path ir.StatePath) Option {
	return func(o *options) {
		o.start = path.Clone()
	}
}

// WithLogger sets the logger for transition diagnostics.
// Fire logs at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every Fire.
// Observers are called in registration order.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
