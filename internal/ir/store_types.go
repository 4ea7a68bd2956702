package ir

// NOTE: These are store-layer records, not part of the declaration model.
// They are produced by the engine and persisted by the store.

// RunStatus is the outcome of an analysis run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// RunRecord describes one analysis run over a Program.
type RunRecord struct {
	ID            string    `json:"id"`           // run token (UUIDv7)
	Seq           int64     `json:"seq"`          // logical clock at run start
	Interface     string    `json:"interface"`    // notification interface FQN
	ProgramHash   string    `json:"program_hash"` // see ProgramHash
	Classes       int       `json:"classes"`
	Findings      int       `json:"findings"`
	Status        RunStatus `json:"status"`
	EngineVersion string    `json:"engine_version"`
	IRVersion     string    `json:"ir_version"`
}

// DiagnosticRecord is a rendered finding stamped with its run and position
// in the run's finding stream.
type DiagnosticRecord struct {
	ID           string `json:"id"` // content-addressed, see FindingID
	RunID        string `json:"run_id"`
	Seq          int64  `json:"seq"` // logical clock
	Class        string `json:"class"`
	Kind         Kind   `json:"kind"`
	DiagnosticID string `json:"diagnostic_id"` // presentation id, e.g. "PA0003"
	Severity     string `json:"severity"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	Anchor       Anchor `json:"anchor"`
}

// Finding returns the finding the record was rendered from.
func (d DiagnosticRecord) Finding() Finding {
	return Finding{Kind: d.Kind, Subject: d.Subject, Anchor: d.Anchor}
}
