package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/dispatchgen/internal/ir"
)

// Run is one recorded generation of one projection.
type Run struct {
	ID               string
	Seq              int64
	Projection       string
	SpecHash         string
	Order            []string
	OrderHash        string
	OutputHash       string
	GeneratorVersion string
}

// RecordRun appends a run to the ledger and returns it with ID, Seq and
// OrderHash filled in. A caller-supplied ID is kept.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.Projection == "" {
		return Run{}, fmt.Errorf("record run: projection is required")
	}
	if run.ID == "" {
		run.ID = s.ids.NewID()
	}
	if run.Order == nil {
		run.Order = []string{}
	}
	if run.GeneratorVersion == "" {
		run.GeneratorVersion = ir.GeneratorVersion
	}
	run.OrderHash = ir.OrderHash(run.Order)

	orderJSON, err := ir.MarshalCanonical(run.Order)
	if err != nil {
		return Run{}, fmt.Errorf("record run: marshal order: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, seq, projection, spec_hash, order_json, order_hash, output_hash, generator_version)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?
		FROM runs
		RETURNING seq
	`,
		run.ID,
		run.Projection,
		run.SpecHash,
		string(orderJSON),
		run.OrderHash,
		run.OutputHash,
		run.GeneratorVersion,
	).Scan(&run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	return run, nil
}

// LatestRun returns the most recent run of a projection. The boolean is
// false when the projection has never been recorded.
func (s *Store) LatestRun(ctx context.Context, projection string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, projection, spec_hash, order_json, order_hash, output_hash, generator_version
		FROM runs
		WHERE projection = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, projection)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// Runs returns every run of a projection in recording order.
// Returns an empty slice (not nil) if none exist.
func (s *Store) Runs(ctx context.Context, projection string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, projection, spec_hash, order_json, order_hash, output_hash, generator_version
		FROM runs
		WHERE projection = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, projection)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Projections returns the names of all recorded projections, sorted.
func (s *Store) Projections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT projection FROM runs ORDER BY projection COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projections: %w", err)
	}
	return names, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		orderJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Projection,
		&run.SpecHash,
		&orderJSON,
		&run.OrderHash,
		&run.OutputHash,
		&run.GeneratorVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(orderJSON), &run.Order); err != nil {
		return Run{}, fmt.Errorf("run %s: decode order: %w", run.ID, err)
	}
	return run, nil
}
