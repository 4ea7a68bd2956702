package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/notifylint/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists the CUE declaration files to compile. They are unified
	// into one program, so a class may be split across files.
	Specs []string `yaml:"specs"`

	// Interface is the fully-qualified name of the notification interface.
	// Empty selects rules.NotificationInterface.
	Interface string `yaml:"interface,omitempty"`

	// RunToken pins the run id for golden comparison. Empty selects
	// testutil.DefaultRunToken.
	RunToken string `yaml:"run_token,omitempty"`

	// Expect is the exact ordered list of findings the run must produce.
	Expect []FindingMatch `yaml:"expect,omitempty"`

	// CompileError, when set, requires compilation to fail with an error
	// containing this text. No analysis runs.
	CompileError string `yaml:"compile_error,omitempty"`

	// Assertions are additional checks over the produced findings.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FindingMatch selects findings by class, kind and subject. Empty fields
// match any value.
type FindingMatch struct {
	Class   string `yaml:"class,omitempty"`
	Kind    string `yaml:"kind,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Matches reports whether d satisfies every non-empty field of m.
func (m FindingMatch) Matches(d ir.DiagnosticRecord) bool {
	if m.Class != "" && m.Class != d.Class {
		return false
	}
	if m.Kind != "" && m.Kind != string(d.Kind) {
		return false
	}
	if m.Subject != "" && m.Subject != d.Subject {
		return false
	}
	return true
}

// String formats the match for failure messages.
func (m FindingMatch) String() string {
	return fmt.Sprintf("{class: %s, kind: %s, subject: %s}", orAny(m.Class), orAny(m.Kind), orAny(m.Subject))
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// Assertion validates the findings of a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "finding_contains": at least one finding matches
	// - "finding_absent": no finding matches
	// - "finding_count": exactly Count findings match
	// - "no_findings": the run produced no findings
	Type string `yaml:"type"`

	Class   string `yaml:"class,omitempty"`
	Kind    string `yaml:"kind,omitempty"`
	Subject string `yaml:"subject,omitempty"`

	// Count is the expected number of matches (used by finding_count).
	Count int `yaml:"count,omitempty"`
}

// Match returns the finding filter of the assertion.
func (a Assertion) Match() FindingMatch {
	return FindingMatch{Class: a.Class, Kind: a.Kind, Subject: a.Subject}
}

// Assertion type constants.
const (
	AssertFindingContains = "finding_contains"
	AssertFindingAbsent   = "finding_absent"
	AssertFindingCount    = "finding_count"
	AssertNoFindings      = "no_findings"
)

// LoadScenario reads and parses a scenario YAML file. Relative spec paths
// are resolved against the directory holding the scenario file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative spec paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve before validation so existence checks see real paths.
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	if s.CompileError != "" {
		if len(s.Expect) > 0 || len(s.Assertions) > 0 {
			return fmt.Errorf("compile_error cannot be combined with expect or assertions")
		}
		return nil
	}

	if len(s.Expect) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("one of expect, assertions or compile_error is required")
	}

	for i, m := range s.Expect {
		if m.Class == "" || m.Kind == "" || m.Subject == "" {
			return fmt.Errorf("expect[%d]: class, kind and subject are required", i)
		}
		if !ir.Kind(m.Kind).Valid() {
			return fmt.Errorf("expect[%d]: unknown finding kind %q", i, m.Kind)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Kind != "" && !ir.Kind(a.Kind).Valid() {
		return fmt.Errorf("assertions[%d]: unknown finding kind %q", index, a.Kind)
	}

	switch a.Type {
	case AssertFindingContains, AssertFindingAbsent:
		if a.Match() == (FindingMatch{}) {
			return fmt.Errorf("assertions[%d]: class, kind or subject is required for %s", index, a.Type)
		}
	case AssertFindingCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for finding_count", index)
		}
	case AssertNoFindings:
		if a.Match() != (FindingMatch{}) {
			return fmt.Errorf("assertions[%d]: no_findings takes no filter", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
