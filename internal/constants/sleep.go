package constants

// IntervalState labels a reconstructed span as sleep or awake.
type IntervalState string

const (
	IntervalSleep IntervalState = "sleep"
	IntervalAwake IntervalState = "awake"
)
