package models

import (
	"time"

	"github.com/wristcare/monitor-agent/internal/constants"
)

// AlertSummaryEntry is one row of GET /alerts_all: a device that currently
// has at least one active condition.
type AlertSummaryEntry struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name,omitempty"`
	Fall     int    `json:"fall"`
	Seizure  int    `json:"seizure"`
	SOS      int    `json:"sos"`
	Time     string `json:"time,omitempty"`
}

// Flags projects the summary row's incident bits into AlertFlags form.
func (e AlertSummaryEntry) Flags() AlertFlags {
	return AlertFlags{
		Active:  e.Fall != 0 || e.Seizure != 0 || e.SOS != 0,
		Fall:    e.Fall,
		Seizure: e.Seizure,
		SOS:     e.SOS,
	}
}

// AlertRecord tracks the live alert lifecycle for one device. Acknowledged
// entries suppress re-triggering per type until the backend reports the
// device fully inactive, which purges the whole set.
type AlertRecord struct {
	DeviceID     string                       `json:"device_id"`
	ActiveType   constants.AlertType          `json:"active_type,omitempty"`
	State        constants.AlertState         `json:"state"`
	Acknowledged map[constants.AlertType]bool `json:"acknowledged,omitempty"`
	RaisedAt     time.Time                    `json:"raised_at,omitempty"`
}

// Banner is the cross-device notification surfaced when a non-focused
// device alerts.
type Banner struct {
	DeviceID string              `json:"device_id"`
	Name     string              `json:"name,omitempty"`
	Type     constants.AlertType `json:"type"`
	RaisedAt time.Time           `json:"raised_at"`
	Monitor  string              `json:"monitor,omitempty"`
}
