package ir

// Version constants for the compiled table format and the engines.
const (
	// TableVersion is the compiled table schema version.
	TableVersion = "1"

	// EngineVersion is the compstate engine version.
	EngineVersion = "0.1.0"
)
