package session

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/wristcare/monitor-agent/internal/models"
)

// DeviceStore caches per-device snapshots. The status and event pollers
// write concurrently; writes are keyed by the device id captured when the
// poll was issued, so a response landing after a focus switch can only
// refresh its own device's entry.
type DeviceStore struct {
	snapshots cmap.ConcurrentMap[string, models.DeviceSnapshot]
}

// NewDeviceStore creates an empty store.
func NewDeviceStore() *DeviceStore {
	return &DeviceStore{snapshots: cmap.New[models.DeviceSnapshot]()}
}

// Get returns the snapshot for one device.
func (ds *DeviceStore) Get(deviceID string) (models.DeviceSnapshot, bool) {
	return ds.snapshots.Get(deviceID)
}

// Devices lists every device with a snapshot.
func (ds *DeviceStore) Devices() []string {
	return ds.snapshots.Keys()
}

// UpdateStatus merges a fresh status row into the device's snapshot.
func (ds *DeviceStore) UpdateStatus(deviceID string, status models.DeviceStatus, at time.Time) {
	ds.snapshots.Upsert(deviceID, models.DeviceSnapshot{}, func(exists bool, current, _ models.DeviceSnapshot) models.DeviceSnapshot {
		if !exists {
			current = models.DeviceSnapshot{DeviceID: deviceID}
		}
		current.Status = status
		current.StatusAt = at
		return current
	})
}

// UpdateDerived merges recomputed sleep and incident summaries into the
// device's snapshot.
func (ds *DeviceStore) UpdateDerived(deviceID string, sleep models.SleepReport, incidents models.IncidentTally, at time.Time) {
	ds.snapshots.Upsert(deviceID, models.DeviceSnapshot{}, func(exists bool, current, _ models.DeviceSnapshot) models.DeviceSnapshot {
		if !exists {
			current = models.DeviceSnapshot{DeviceID: deviceID}
		}
		current.Sleep = sleep
		current.Incidents = incidents
		current.EventsAt = at
		return current
	})
}
