package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/notifylint/internal/ir"
)

// snapshotMap converts a result to the map form accepted by
// ir.MarshalCanonical. Content-addressed ids are left out: they change
// whenever the hashing scheme does, and the remaining fields already
// identify each finding.
func snapshotMap(scenarioName string, result *Result) map[string]any {
	diags := make([]any, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diags[i] = map[string]any{
			"seq":           d.Seq,
			"class":         d.Class,
			"kind":          string(d.Kind),
			"diagnostic_id": d.DiagnosticID,
			"severity":      d.Severity,
			"subject":       d.Subject,
			"message":       d.Message,
			"anchor":        anchorMap(d.Anchor),
		}
	}

	m := map[string]any{
		"scenario_name": scenarioName,
		"diagnostics":   diags,
	}
	if result.RunID != "" {
		m["run_id"] = result.RunID
	}
	return m
}

func anchorMap(a ir.Anchor) map[string]any {
	m := map[string]any{}
	if a.File != "" {
		m["file"] = a.File
	}
	if a.Line > 0 {
		m["line"] = a.Line
	}
	if a.Column > 0 {
		m["column"] = a.Column
	}
	if a.Symbol != "" {
		m["symbol"] = a.Symbol
	}
	return m
}

// RunWithGolden executes a scenario and compares its findings against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed. A golden mismatch
// fails t through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file named
// scenarioName without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
