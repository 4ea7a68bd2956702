package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/notifylint/internal/ir"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., an unknown status) still return errors.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) error {
	return insertRun(ctx, s.db, run)
}

// WriteDiagnostic inserts a diagnostic record.
// The (run_id, id) key makes repeated writes of the same finding within a
// run no-ops.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteDiagnostic(ctx context.Context, d ir.DiagnosticRecord) error {
	return insertDiagnostic(ctx, s.db, d)
}

// WriteRunWithDiagnostics stores a run and all of its diagnostics in one
// transaction. Either every row is written or none is, so a stored run
// always has the diagnostics its Findings count claims.
func (s *Store) WriteRunWithDiagnostics(ctx context.Context, run ir.RunRecord, diags []ir.DiagnosticRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}
	for _, d := range diags {
		if err := insertDiagnostic(ctx, tx, d); err != nil {
			return fmt.Errorf("seq %d: %w", d.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run ir.RunRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, interface, program_hash, classes, findings, status, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.Interface,
		run.ProgramHash,
		run.Classes,
		run.Findings,
		string(run.Status),
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func insertDiagnostic(ctx context.Context, db execer, d ir.DiagnosticRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO diagnostics
		(id, run_id, seq, class, kind, diagnostic_id, severity, subject, message, file, line, col, symbol)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO NOTHING
	`,
		d.ID,
		d.RunID,
		d.Seq,
		d.Class,
		string(d.Kind),
		d.DiagnosticID,
		d.Severity,
		d.Subject,
		d.Message,
		d.Anchor.File,
		d.Anchor.Line,
		d.Anchor.Column,
		d.Anchor.Symbol,
	)
	if err != nil {
		return fmt.Errorf("write diagnostic: %w", err)
	}
	return nil
}
