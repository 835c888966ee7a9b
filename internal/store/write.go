package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	start, err := marshalPath(run.Start)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, machine, engine, fingerprint, start_path, source, engine_version, table_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Machine,
		run.Engine,
		run.Fingerprint,
		start,
		run.Source,
		run.EngineVersion,
		run.TableVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteFire appends a fire to its run.
// Uses ON CONFLICT DO NOTHING for idempotency - rewriting the same
// (run_id, seq) is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteFire(ctx context.Context, f Fire) error {
	from, err := marshalPath(f.From)
	if err != nil {
		return fmt.Errorf("write fire: %w", err)
	}
	to, err := marshalPath(f.To)
	if err != nil {
		return fmt.Errorf("write fire: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fires
		(run_id, seq, input, from_path, result, to_path)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		f.RunID,
		f.Seq,
		string(f.Input),
		from,
		f.Result.String(),
		to,
	)
	if err != nil {
		return fmt.Errorf("write fire: %w", err)
	}
	return nil
}
