package constants

import "time"

const (
	// SirenCadence is the fixed repeat interval of the audible signal.
	SirenCadence = 2 * time.Second

	// AckGraceDelay is how long an acknowledgment waits before re-reading
	// the backend alert flags.
	AckGraceDelay = 1500 * time.Millisecond

	DefaultStatusInterval      = 2 * time.Second
	DefaultGlobalAlertInterval = 2 * time.Second
	DefaultEventInterval       = 5 * time.Minute
	DefaultDiagnosticsInterval = 60 * time.Second

	// DiagnosticsTopic is where stations publish their own health samples.
	DiagnosticsTopic = "monitors/diagnostics"

	// DefaultRequestTimeout bounds a single backend call.
	DefaultRequestTimeout = 10 * time.Second

	// PollBackoffCap bounds the poll retry backoff after consecutive failures.
	PollBackoffCap = 30 * time.Second
)

// Incident tally windows, cumulative.
const (
	WindowDay   = 24 * time.Hour
	WindowWeek  = 7 * 24 * time.Hour
	WindowMonth = 31 * 24 * time.Hour
)
