package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/notifylint/internal/ir"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a completed run with minimal required fields.
func createTestRun(id string, seq int64) ir.RunRecord {
	return ir.RunRecord{
		ID:            id,
		Seq:           seq,
		Interface:     "System.ComponentModel.INotifyPropertyChanged",
		ProgramHash:   "test-hash",
		Classes:       2,
		Findings:      0,
		Status:        ir.RunCompleted,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

// createTestDiagnostic creates a diagnostic for a NoSetter finding on class.
func createTestDiagnostic(runID, class, subject string, seq int64) ir.DiagnosticRecord {
	f := ir.Finding{
		Kind:    ir.KindNoSetter,
		Subject: subject,
		Anchor:  ir.Anchor{File: "decl.cue", Line: int(seq), Column: 3, Symbol: class + ".On" + subject + "Changed"},
	}
	return ir.DiagnosticRecord{
		ID:           ir.MustFindingID(class, f),
		RunID:        runID,
		Seq:          seq,
		Class:        class,
		Kind:         f.Kind,
		DiagnosticID: "PA0003",
		Severity:     "warning",
		Subject:      subject,
		Message:      "Property " + subject + " has no setter. This method will not be called by PropertyChanged.Fody.",
		Anchor:       f.Anchor,
	}
}
