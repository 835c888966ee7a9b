// Package store provides SQLite-backed trace storage for machine runs.
//
// A run records which machine was driven, by which engine, from which start
// path, and the fingerprint of the compiled table at the time. Each Fire
// call appends one fire row: the input, the path before, the result and the
// path after. Traces support audit and deterministic replay; they are never
// used to restore a machine's position.
//
// # Patterns
//
// Logical time:
//   - fires are ordered by seq INTEGER from a Clock, never by timestamps
//   - every query includes ORDER BY seq ASC (runs: id COLLATE BINARY)
//
// Idempotent writes:
//   - INSERT ... ON CONFLICT DO NOTHING on runs.id and (run_id, seq)
//
// Canonical paths:
//   - state paths are stored as RFC 8785 JSON arrays via ir.MarshalCanonical
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: fires must reference an existing run
//   - MaxOpenConns(1): single writer
package store
