package models

// AckRequest asks this monitor to acknowledge the sounding alert on a
// device. The operator label overrides the station's own when present.
type AckRequest struct {
	DeviceID string `json:"device_id"`
	Operator string `json:"operator,omitempty"`
}

// FocusRequest switches the device this monitor is watching.
type FocusRequest struct {
	DeviceID string `json:"device_id"`
}
