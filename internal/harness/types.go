package harness

import "github.com/roach88/notifylint/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunID is the run token the findings were stored under. Empty for
	// scenarios that stop at compilation.
	RunID string `json:"run_id,omitempty"`

	// Diagnostics are the findings read back from the store, in sequence
	// order.
	Diagnostics []ir.DiagnosticRecord `json:"diagnostics"`

	// Errors holds one message per failed expectation. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with no findings.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Diagnostics: []ir.DiagnosticRecord{},
		Errors:      []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
