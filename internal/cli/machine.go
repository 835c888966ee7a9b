package cli

import (
	"fmt"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/loader"
)

// EngineKinds lists the values accepted by --engine.
var EngineKinds = []string{engine.KindComposite, engine.KindTable}

// parseStart converts a --start flag into a start override.
// An empty flag means the declared start.
func parseStart(s string) ir.StatePath {
	if s == "" {
		return nil
	}
	return ir.ParsePath(s)
}

// newMachine builds an engine of the given kind over cfg.
func newMachine(kind string, cfg *ir.MachineConfig, opts ...engine.Option) (ir.Machine, *ir.Table, error) {
	table, err := compiler.Compile(cfg)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case engine.KindComposite:
		c, err := engine.NewComposite(cfg, opts...)
		if err != nil {
			return nil, nil, err
		}
		return c, table, nil
	case engine.KindTable:
		e, err := engine.NewTable(table, opts...)
		if err != nil {
			return nil, nil, err
		}
		return e, table, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q: must be one of %v", kind, EngineKinds)
	}
}

// machineName returns the configured name of cfg, or "root".
func machineName(cfg *ir.MachineConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "root"
}

// loadMachine parses and builds the document at path.
func loadMachine(path string, opts ...loader.Option) (*ir.MachineConfig, error) {
	return loader.LoadFile(path, opts...)
}
