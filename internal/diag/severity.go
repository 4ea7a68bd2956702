package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from informational to blocking.
type Severity int

const (
	// SeverityHidden findings are recorded but not meant to be shown.
	SeverityHidden Severity = iota
	// SeverityInfo findings are informational.
	SeverityInfo
	// SeverityWarning is the default for every built-in descriptor.
	SeverityWarning
	// SeverityError findings should fail a build.
	SeverityError
)

var severityNames = [...]string{"hidden", "info", "warning", "error"}

// String returns the lower-case name, or Severity(n) for an out-of-range value.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity parses a lower- or mixed-case severity name.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(name, n) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q (valid: %s)", name, strings.Join(severityNames[:], ", "))
}

// MarshalText encodes the severity by name. Out-of-range values are an error.
func (s Severity) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(severityNames) {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name, case-insensitively.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
