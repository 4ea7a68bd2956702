package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notifylint/internal/ir"
	"github.com/roach88/notifylint/internal/store"
)

// seedHistory runs check twice against a fresh database and returns its
// path with the stored runs.
func seedHistory(t *testing.T) (string, []ir.RunRecord) {
	t.Helper()
	dir := writeDecls(t, map[string]string{"decl.cue": orphanDecls})
	db := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		_, err := executeCheck(t, "text", dir, "--db", db, "--fail-on", "none")
		require.NoError(t, err)
	}

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	return db, runs
}

func executeHistory(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryListRuns(t *testing.T) {
	db, runs := seedHistory(t)

	out, err := executeHistory(t, "text", "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], runs[0].ID+"  seq=1  completed"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], runs[1].ID+"  seq=4  completed"), lines[1])
	assert.Contains(t, lines[0], "classes=1  findings=2  interface=System.ComponentModel.INotifyPropertyChanged")
}

func TestHistoryListRunsJSON(t *testing.T) {
	db, runs := seedHistory(t)

	out, err := executeHistory(t, "json", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data []ir.RunRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, runs, resp.Data)
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeHistory(t, "text", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistoryMissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "typo.db")

	out, err := executeHistory(t, "text", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: database not found: "+db)

	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "history must not create the database")
}

func TestHistoryRun(t *testing.T) {
	db, runs := seedHistory(t)

	out, err := executeHistory(t, "text", "--db", db, "--run", runs[1].ID)
	require.NoError(t, err)
	assert.Contains(t, out, runs[1].ID+"  seq=4")
	assert.Contains(t, out, "warning PA0001: Class Orphan does not inherit")
	assert.Contains(t, out, "warning PA0003: Property ReadOnly has no setter")
	assert.NotContains(t, out, runs[0].ID)
}

func TestHistoryRunJSON(t *testing.T) {
	db, runs := seedHistory(t)

	out, err := executeHistory(t, "json", "--db", db, "--run", runs[0].ID)
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, runs[0], resp.Data.Run)
	require.Len(t, resp.Data.Diagnostics, 2)
	assert.Equal(t, int64(2), resp.Data.Diagnostics[0].Seq)
	assert.Equal(t, runs[0].ID, resp.Data.Diagnostics[0].RunID)
}

func TestHistoryRunNotFound(t *testing.T) {
	db, _ := seedHistory(t)

	out, err := executeHistory(t, "text", "--db", db, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: run not found: no-such-run")
}

func TestHistoryFinding(t *testing.T) {
	db, runs := seedHistory(t)

	st, err := store.Open(db)
	require.NoError(t, err)
	diags, err := st.ReadRunDiagnostics(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.NoError(t, st.Close())
	findingID := diags[1].ID

	out, err := executeHistory(t, "text", "--db", db, "--finding", findingID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "run "+runs[0].ID+" (seq 3): "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "run "+runs[1].ID+" (seq 6): "), lines[1])
	assert.Contains(t, lines[1], "PA0003")
}

func TestHistoryFindingNeverReported(t *testing.T) {
	db, _ := seedHistory(t)

	out, err := executeHistory(t, "text", "--db", db, "--finding", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Finding abc123 was never reported.\n", out)
}

func TestHistoryFlags(t *testing.T) {
	t.Run("db required", func(t *testing.T) {
		_, err := executeHistory(t, "text")
		assert.Error(t, err)
	})

	t.Run("run and finding exclusive", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "x.db")
		_, err := executeHistory(t, "text", "--db", db, "--run", "a", "--finding", "b")
		assert.Error(t, err)
	})
}
