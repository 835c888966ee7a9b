// Package ir provides the core data model for compstate.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// configuration model, the compiled table model and the fireable-machine
// contract in one foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Configuration values (MachineConfig, StateConfig, TransitionConfig) are
//     read-only once handed to the compiler or an engine
//   - A nil StatePath is absent, StatePath{} is empty; the two are never coerced
//   - Sub-machines are referenced by pointer and may be shared (DAG, not tree)
//   - A compiled Table is immutable after Compile returns
package ir
