package models

import "time"

// DeviceSnapshot is the monitor's cached view of one device: the latest
// status row plus the derived sleep and incident summaries, each stamped
// with when it was refreshed.
type DeviceSnapshot struct {
	DeviceID  string        `json:"device_id"`
	Status    DeviceStatus  `json:"status"`
	StatusAt  time.Time     `json:"status_at"`
	Sleep     SleepReport   `json:"sleep"`
	Incidents IncidentTally `json:"incidents"`
	EventsAt  time.Time     `json:"events_at"`
}
