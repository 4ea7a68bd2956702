package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notifylint/internal/diag"
)

func TestRulesText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRulesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Regexp(t, `^ID\s+SEVERITY\s+KIND\s+TITLE$`, lines[0])

	ids := []string{"PA0001", "PA0002", "PA0003", "PA0004", "PA0005", "PA1000", "PA1001"}
	for i, id := range ids {
		assert.True(t, strings.HasPrefix(lines[i+1], id+" "), lines[i+1])
		assert.Contains(t, lines[i+1], "warning")
	}
	assert.Contains(t, lines[3], "NoSetter")
	assert.Contains(t, lines[3], "Method will not be called on change because property has no setter")
}

func TestRulesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRulesCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string            `json:"status"`
		Data   []diag.Descriptor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, diag.DefaultCatalog().Descriptors(), resp.Data)
}

func TestRulesRejectsArgs(t *testing.T) {
	cmd := NewRulesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
