package ir

// Version constants for the model schema and the analyzer.
const (
	// IRVersion is the model schema version.
	IRVersion = "1"

	// EngineVersion is the notifylint analyzer version.
	EngineVersion = "0.1.0"
)
