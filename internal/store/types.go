package store

import (
	"errors"

	"github.com/roach88/compstate/internal/ir"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = errors.New("run not found")

// Run describes one recorded session of a machine.
type Run struct {
	ID            string       `json:"id"`
	Machine       string       `json:"machine"`
	Engine        string       `json:"engine"`
	Fingerprint   string       `json:"fingerprint"`
	Start         ir.StatePath `json:"start"`
	Source        string       `json:"source,omitempty"`
	EngineVersion string       `json:"engine_version"`
	TableVersion  string       `json:"table_version"`
}

// Fire is one recorded Fire call.
type Fire struct {
	RunID  string       `json:"run_id"`
	Seq    int64        `json:"seq"`
	Input  ir.Input     `json:"input"`
	From   ir.StatePath `json:"from"`
	Result ir.Result    `json:"result"`
	To     ir.StatePath `json:"to"`
}

// Response returns the ir.Response the fire produced.
func (f Fire) Response() ir.Response {
	return ir.Response{Result: f.Result, Path: f.To}
}

// RunSummary is a run together with its fire count.
type RunSummary struct {
	Run
	Fires int `json:"fires"`
}
