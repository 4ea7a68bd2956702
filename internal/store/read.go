package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/notifylint/internal/ir"
)

const runColumns = `id, seq, interface, program_hash, classes, findings, status, engine_version, ir_version`

const diagnosticColumns = `id, run_id, seq, class, kind, diagnostic_id, severity, subject, message, file, line, col, symbol`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns every run, oldest first.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]ir.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
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

// ReadRunDiagnostics returns the diagnostics of a run in stream order.
//
// Returns an empty slice (not nil) if the run has no diagnostics.
func (s *Store) ReadRunDiagnostics(ctx context.Context, runID string) ([]ir.DiagnosticRecord, error) {
	return s.queryDiagnostics(ctx, `
		SELECT `+diagnosticColumns+`
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
}

// ReadFindingHistory returns every recorded occurrence of a finding id
// across runs, oldest first.
func (s *Store) ReadFindingHistory(ctx context.Context, findingID string) ([]ir.DiagnosticRecord, error) {
	return s.queryDiagnostics(ctx, `
		SELECT `+diagnosticColumns+`
		FROM diagnostics
		WHERE id = ?
		ORDER BY seq ASC, run_id COLLATE BINARY ASC
	`, findingID)
}

// LastSeq returns the highest sequence number recorded, or 0 for an empty
// store. A clock started at LastSeq keeps numbering monotonic across runs.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(
			COALESCE((SELECT MAX(seq) FROM runs), 0),
			COALESCE((SELECT MAX(seq) FROM diagnostics), 0)
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

func (s *Store) queryDiagnostics(ctx context.Context, query string, arg string) ([]ir.DiagnosticRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []ir.DiagnosticRecord{}
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.RunRecord, error) {
	var (
		run    ir.RunRecord
		status string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Interface,
		&run.ProgramHash,
		&run.Classes,
		&run.Findings,
		&status,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if err == sql.ErrNoRows {
		return ir.RunRecord{}, err
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	run.Status = ir.RunStatus(status)
	return run, nil
}

func scanDiagnostic(row scanner) (ir.DiagnosticRecord, error) {
	var (
		d    ir.DiagnosticRecord
		kind string
	)
	err := row.Scan(
		&d.ID,
		&d.RunID,
		&d.Seq,
		&d.Class,
		&kind,
		&d.DiagnosticID,
		&d.Severity,
		&d.Subject,
		&d.Message,
		&d.Anchor.File,
		&d.Anchor.Line,
		&d.Anchor.Column,
		&d.Anchor.Symbol,
	)
	if err != nil {
		return ir.DiagnosticRecord{}, fmt.Errorf("scan diagnostic: %w", err)
	}
	d.Kind = ir.Kind(kind)
	return d, nil
}
