package model

// modeUnknownStr is the string representation for unknown execution modes.
const modeUnknownStr = "unknown"

// ExecutionMode selects the concurrency strategy for one batch run.
// The mode affects only scheduling and completion order, never the content
// of the outcome set: all three strategies execute the same unit of work.
type ExecutionMode string

// Execution mode constants. The short forms are the canonical CLI values.
const (
	// ModeUnknown represents an unrecognized mode string.
	ModeUnknown ExecutionMode = ""

	// ModeSequential runs titles one at a time in input order.
	ModeSequential ExecutionMode = "seq"

	// ModeThreaded fans titles out to a bounded pool of worker goroutines.
	ModeThreaded ExecutionMode = "threads"

	// ModeProcesses fans titles out to a bounded pool of worker processes,
	// each an isolated re-execution of this binary.
	ModeProcesses ExecutionMode = "procs"
)

// String returns the string representation of the ExecutionMode.
func (m ExecutionMode) String() string {
	if m == ModeUnknown {
		return modeUnknownStr
	}
	return string(m)
}

// IsValid returns true if this is a known execution mode.
func (m ExecutionMode) IsValid() bool {
	switch m {
	case ModeSequential, ModeThreaded, ModeProcesses:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to an ExecutionMode.
// Long-form aliases are accepted alongside the canonical short values.
func ParseMode(s string) ExecutionMode {
	switch s {
	case "seq", "sequential":
		return ModeSequential
	case "threads", "threaded", "thread":
		return ModeThreaded
	case "procs", "processes", "process":
		return ModeProcesses
	default:
		return ModeUnknown
	}
}
