package models

// DeviceStatus is the current snapshot row for one device as served by
// GET /latest/{deviceId}. Flags are 0/1 integers; readings may be absent.
type DeviceStatus struct {
	DeviceID    string   `json:"device_id,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	SleepState  *int     `json:"sleep_state,omitempty"`
	Fall        int      `json:"fall,omitempty"`
	Seizure     int      `json:"seizure,omitempty"`
	SOS         int      `json:"sos,omitempty"`
	LastTS      string   `json:"last_ts,omitempty"`
}

// AlertFlags is the reply of GET /alert_status/{deviceId}, read back after
// a clear request to confirm the backend really dropped the condition.
type AlertFlags struct {
	Active  bool `json:"active"`
	Fall    int  `json:"fall"`
	Seizure int  `json:"seizure"`
	SOS     int  `json:"sos"`
}

// Flags projects the status row's incident bits into AlertFlags form.
func (s DeviceStatus) Flags() AlertFlags {
	return AlertFlags{
		Active:  s.Fall != 0 || s.Seizure != 0 || s.SOS != 0,
		Fall:    s.Fall,
		Seizure: s.Seizure,
		SOS:     s.SOS,
	}
}
