package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/notifylint/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It carries the stored findings to help debug the failure.
type AssertionError struct {
	Type     string                // assertion type or "expect"
	Expected string                // human-readable expected outcome
	Actual   string                // human-readable actual outcome
	Findings []ir.DiagnosticRecord // every finding of the run
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFindings:\n")
	if len(e.Findings) == 0 {
		fmt.Fprintf(&buf, "  (none)\n")
	}
	for _, d := range e.Findings {
		fmt.Fprintf(&buf, "  [%d] %s %s %s\n", d.Seq, d.Class, d.Kind, d.Subject)
	}

	return buf.String()
}

// EvaluateExpect checks that findings are exactly expect, in order.
func EvaluateExpect(findings []ir.DiagnosticRecord, expect []FindingMatch) error {
	n := max(len(findings), len(expect))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(findings):
			return &AssertionError{
				Type:     "expect",
				Expected: fmt.Sprintf("finding %d %s", i+1, expect[i]),
				Actual:   fmt.Sprintf("run produced %d findings", len(findings)),
				Findings: findings,
			}
		case i >= len(expect):
			return &AssertionError{
				Type:     "expect",
				Expected: fmt.Sprintf("%d findings", len(expect)),
				Actual:   fmt.Sprintf("unexpected finding %d %s", i+1, describe(findings[i])),
				Findings: findings,
			}
		case !expect[i].Matches(findings[i]):
			return &AssertionError{
				Type:     "expect",
				Expected: fmt.Sprintf("finding %d %s", i+1, expect[i]),
				Actual:   describe(findings[i]),
				Findings: findings,
			}
		}
	}
	return nil
}

func describe(d ir.DiagnosticRecord) string {
	return FindingMatch{Class: d.Class, Kind: string(d.Kind), Subject: d.Subject}.String()
}

func countMatches(findings []ir.DiagnosticRecord, m FindingMatch) int {
	n := 0
	for _, d := range findings {
		if m.Matches(d) {
			n++
		}
	}
	return n
}

func assertFindingContains(findings []ir.DiagnosticRecord, a Assertion) error {
	if countMatches(findings, a.Match()) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFindingContains,
		Expected: fmt.Sprintf("a finding matching %s", a.Match()),
		Actual:   "not found",
		Findings: findings,
	}
}

func assertFindingAbsent(findings []ir.DiagnosticRecord, a Assertion) error {
	n := countMatches(findings, a.Match())
	if n == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFindingAbsent,
		Expected: fmt.Sprintf("no finding matching %s", a.Match()),
		Actual:   fmt.Sprintf("%d matching findings", n),
		Findings: findings,
	}
}

func assertFindingCount(findings []ir.DiagnosticRecord, a Assertion) error {
	n := countMatches(findings, a.Match())
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertFindingCount,
		Expected: fmt.Sprintf("%d findings matching %s", a.Count, a.Match()),
		Actual:   fmt.Sprintf("%d findings", n),
		Findings: findings,
	}
}

func assertNoFindings(findings []ir.DiagnosticRecord) error {
	if len(findings) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoFindings,
		Expected: "no findings",
		Actual:   fmt.Sprintf("%d findings", len(findings)),
		Findings: findings,
	}
}

// EvaluateAssertions runs every assertion and returns the failure messages.
// All assertions are evaluated; a failure does not stop the rest.
func EvaluateAssertions(findings []ir.DiagnosticRecord, assertions []Assertion) []string {
	var errors []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFindingContains:
			err = assertFindingContains(findings, a)
		case AssertFindingAbsent:
			err = assertFindingAbsent(findings, a)
		case AssertFindingCount:
			err = assertFindingCount(findings, a)
		case AssertNoFindings:
			err = assertNoFindings(findings)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errors
}
