package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// ReadRun returns the run with the given id, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, machine, engine, fingerprint, start_path, source, engine_version, table_version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run with its fire count.
// Results are ordered by id, which for UUIDv7 ids is creation order.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.machine, r.engine, r.fingerprint, r.start_path, r.source,
		       r.engine_version, r.table_version, COUNT(f.seq)
		FROM runs r
		LEFT JOIN fires f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			sum   RunSummary
			start string
		)
		if err := rows.Scan(
			&sum.ID, &sum.Machine, &sum.Engine, &sum.Fingerprint, &start, &sum.Source,
			&sum.EngineVersion, &sum.TableVersion, &sum.Fires,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sum.Start, err = unmarshalPath(start); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadFires returns the fires of a run ordered by seq.
//
// Returns an empty slice (not nil) if the run has no fires.
func (s *Store) ReadFires(ctx context.Context, runID string) ([]Fire, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, input, from_path, result, to_path
		FROM fires
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query fires: %w", err)
	}
	defer rows.Close()

	fires := []Fire{}
	for rows.Next() {
		f, err := scanFire(rows)
		if err != nil {
			return nil, err
		}
		fires = append(fires, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fires: %w", err)
	}
	return fires, nil
}

// Inputs returns the inputs of a run in seq order.
func (s *Store) Inputs(ctx context.Context, runID string) ([]ir.Input, error) {
	fires, err := s.ReadFires(ctx, runID)
	if err != nil {
		return nil, err
	}
	inputs := make([]ir.Input, len(fires))
	for i, f := range fires {
		inputs[i] = f.Input
	}
	return inputs, nil
}

func scanRun(row *sql.Row) (Run, error) {
	var (
		run   Run
		start string
	)
	if err := row.Scan(
		&run.ID, &run.Machine, &run.Engine, &run.Fingerprint, &start, &run.Source,
		&run.EngineVersion, &run.TableVersion,
	); err != nil {
		return Run{}, err
	}
	p, err := unmarshalPath(start)
	if err != nil {
		return Run{}, err
	}
	run.Start = p
	return run, nil
}

func scanFire(rows *sql.Rows) (Fire, error) {
	var (
		f             Fire
		input, result string
		from, to      string
	)
	if err := rows.Scan(&f.RunID, &f.Seq, &input, &from, &result, &to); err != nil {
		return Fire{}, fmt.Errorf("scan fire: %w", err)
	}
	f.Input = ir.Input(input)

	var err error
	if f.From, err = unmarshalPath(from); err != nil {
		return Fire{}, fmt.Errorf("scan fire: %w", err)
	}
	if f.To, err = unmarshalPath(to); err != nil {
		return Fire{}, fmt.Errorf("scan fire: %w", err)
	}
	if f.Result, err = parseResult(result); err != nil {
		return Fire{}, fmt.Errorf("scan fire: %w", err)
	}
	return f, nil
}
