package models

import (
	"time"

	"github.com/wristcare/monitor-agent/internal/constants"
)

// Interval is a reconstructed contiguous sleep or awake span. Ongoing marks
// the final interval whose end is pinned to the evaluation instant.
type Interval struct {
	Start         time.Time               `json:"start"`
	End           time.Time               `json:"end"`
	State         constants.IntervalState `json:"state"`
	DurationHours float64                 `json:"duration_hours"`
	Ongoing       bool                    `json:"ongoing,omitempty"`
}

// SleepReport is the full segmentation result for one device's event log.
type SleepReport struct {
	Intervals       []Interval `json:"intervals"`
	TotalSleepHours float64    `json:"total_sleep_hours"`
	TotalAwakeHours float64    `json:"total_awake_hours"`
}
