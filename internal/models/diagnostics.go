package models

import "time"

// Reading is a single sampled value with its unit.
type Reading struct {
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

// MonitorDiagnostics is one health sample of the monitor station itself,
// published so a fleet operator can spot a dying station.
type MonitorDiagnostics struct {
	MonitorID string             `json:"monitor_id"`
	Timestamp time.Time          `json:"timestamp"`
	Readings  map[string]Reading `json:"readings"`
}
