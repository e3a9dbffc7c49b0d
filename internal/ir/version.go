package ir

// Version constants for the IR schema and generator.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// GeneratorVersion is the dispatchgen version stamped into generated files.
	GeneratorVersion = "0.3.0"
)
