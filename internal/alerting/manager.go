package alerting

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/internal/state_managers"
	"github.com/wristcare/monitor-agent/pkg/backend"
	"github.com/wristcare/monitor-agent/pkg/siren"
)

// Manager runs the per-device alert lifecycle: Idle, Sounding and
// Acknowledged per (device, type), backed by the single system-wide siren.
// Status reports flow in through Evaluate and Reconcile; the operator acts
// through Acknowledge. All transitions happen under one lock, so the siren
// ownership decisions below see a consistent fleet.
type Manager struct {
	siren    siren.Siren
	client   backend.Client
	ackStore *state_managers.AckStateManager
	clk      clock.Clock
	operator string
	logger   zerolog.Logger

	mu      sync.Mutex
	records map[string]*models.AlertRecord
}

// NewManager initializes the manager, reviving acknowledgments persisted by
// an earlier run. Revived entries sit on idle records until a report
// confirms the condition is still live; an inactive report purges them.
func NewManager(
	sirenClient siren.Siren,
	client backend.Client,
	ackStore *state_managers.AckStateManager,
	clk clock.Clock,
	operator string,
	logger zerolog.Logger,
) *Manager {
	records := make(map[string]*models.AlertRecord)

	persisted, err := ackStore.LoadState()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load persisted acknowledgments, starting empty")
	}
	for deviceID, types := range persisted {
		acks := make(map[constants.AlertType]bool, len(types))
		for _, t := range types {
			acks[t] = true
		}
		records[deviceID] = &models.AlertRecord{
			DeviceID:     deviceID,
			State:        constants.AlertStateIdle,
			Acknowledged: acks,
		}
	}

	return &Manager{
		siren:    sirenClient,
		client:   client,
		ackStore: ackStore,
		clk:      clk,
		operator: operator,
		records:  records,
		logger:   logger,
	}
}

// Evaluate applies one device's current flags to its alert machine.
func (m *Manager) Evaluate(deviceID string, flags models.AlertFlags) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluateLocked(deviceID, flags)
}

// Reconcile applies a full cross-device summary. The backend lists every
// device with a live condition, so a tracked device missing from the
// summary is inactive by definition.
func (m *Manager) Reconcile(entries []models.AlertSummaryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.DeviceID] = true
	}
	for deviceID := range m.records {
		if !present[deviceID] {
			m.deactivateLocked(deviceID)
		}
	}
	for _, e := range entries {
		m.evaluateLocked(e.DeviceID, e.Flags())
	}
}

// Acknowledge silences a sounding alert, records the suppression, asks the
// backend to clear the condition and schedules a re-check after the grace
// delay. The clear error is returned because the operator sees it.
func (m *Manager) Acknowledge(ctx context.Context, deviceID, operator string) error {
	if operator == "" {
		operator = m.operator
	}

	m.mu.Lock()
	rec := m.records[deviceID]
	if rec == nil || rec.State != constants.AlertStateSounding {
		m.mu.Unlock()
		return fmt.Errorf("no sounding alert for device %s", deviceID)
	}

	alertType := rec.ActiveType
	rec.Acknowledged[alertType] = true
	rec.State = constants.AlertStateAcknowledged

	if st := m.siren.Snapshot(); st.Active && st.DeviceID == deviceID {
		m.siren.Silence()
	}
	if err := m.ackStore.AddAck(deviceID, alertType); err != nil {
		m.logger.Warn().Err(err).Str("device_id", deviceID).Msg("Failed to persist acknowledgment")
	}
	m.mu.Unlock()

	m.logger.Info().
		Str("device_id", deviceID).
		Str("type", string(alertType)).
		Str("operator", operator).
		Msg("Alert acknowledged")

	if err := m.client.ClearAlert(ctx, deviceID, operator); err != nil {
		m.logger.Error().Err(err).Str("device_id", deviceID).Msg("Backend clear request failed")
		return err
	}

	m.scheduleRecheck(deviceID)
	return nil
}

// Lookup returns a copy of the device's alert record.
func (m *Manager) Lookup(deviceID string) (models.AlertRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.records[deviceID]
	if rec == nil {
		return models.AlertRecord{}, false
	}
	out := *rec
	out.Acknowledged = make(map[constants.AlertType]bool, len(rec.Acknowledged))
	for k, v := range rec.Acknowledged {
		out.Acknowledged[k] = v
	}
	return out, true
}

func (m *Manager) evaluateLocked(deviceID string, flags models.AlertFlags) {
	active, ok := highestActive(flags)
	if !ok {
		m.deactivateLocked(deviceID)
		return
	}

	rec := m.records[deviceID]
	if rec == nil {
		rec = &models.AlertRecord{
			DeviceID:     deviceID,
			State:        constants.AlertStateIdle,
			Acknowledged: make(map[constants.AlertType]bool),
		}
		m.records[deviceID] = rec
	}

	if rec.Acknowledged[active] {
		rec.ActiveType = active
		rec.State = constants.AlertStateAcknowledged
		return
	}

	if rec.State != constants.AlertStateSounding || rec.ActiveType != active {
		rec.RaisedAt = m.clk.Now()
		m.logger.Info().
			Str("device_id", deviceID).
			Str("type", string(active)).
			Msg("Alert sounding")
	}
	rec.ActiveType = active
	rec.State = constants.AlertStateSounding
	m.engageLocked(deviceID, active)
}

// engageLocked decides whether this device may own the single siren: it
// takes over when the siren is free, when it already owns it (the siren
// itself absorbs same-type repeats and restarts on type change), or when
// its alert outranks the current owner's.
func (m *Manager) engageLocked(deviceID string, alertType constants.AlertType) {
	st := m.siren.Snapshot()
	switch {
	case !st.Active:
		m.siren.Engage(deviceID, alertType)
	case st.DeviceID == deviceID:
		m.siren.Engage(deviceID, alertType)
	case constants.AlertPriority[alertType] < constants.AlertPriority[st.Type]:
		m.siren.Engage(deviceID, alertType)
	}
}

// deactivateLocked handles an inactive report: the siren stops if this
// device owns it, the acknowledgment set purges so a recurrence re-triggers,
// and the record is dropped entirely.
func (m *Manager) deactivateLocked(deviceID string) {
	rec := m.records[deviceID]
	if rec == nil {
		return
	}

	if st := m.siren.Snapshot(); st.Active && st.DeviceID == deviceID {
		m.siren.Silence()
	}
	if len(rec.Acknowledged) > 0 {
		if err := m.ackStore.PurgeDevice(deviceID); err != nil {
			m.logger.Warn().Err(err).Str("device_id", deviceID).Msg("Failed to purge persisted acknowledgments")
		}
	}
	delete(m.records, deviceID)

	m.logger.Info().Str("device_id", deviceID).Msg("Alert idle, acknowledgments purged")
}

// scheduleRecheck re-reads the backend flags after the grace delay. The
// follow-up evaluation settles the record into Idle when the clear landed,
// or keeps the suppression when the condition is still live.
func (m *Manager) scheduleRecheck(deviceID string) {
	m.clk.AfterFunc(constants.AckGraceDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRequestTimeout)
		defer cancel()

		flags, err := m.client.AlertStatus(ctx, deviceID)
		if err != nil {
			m.logger.Debug().Err(err).Str("device_id", deviceID).Msg("Alert status re-check failed")
			return
		}
		m.Evaluate(deviceID, flags)
	})
}

func highestActive(flags models.AlertFlags) (constants.AlertType, bool) {
	for _, t := range constants.AlertTypesByPriority {
		if flagFor(flags, t) != 0 {
			return t, true
		}
	}
	return "", false
}

func flagFor(flags models.AlertFlags, t constants.AlertType) int {
	switch t {
	case constants.AlertSeizure:
		return flags.Seizure
	case constants.AlertFall:
		return flags.Fall
	case constants.AlertSOS:
		return flags.SOS
	}
	return 0
}
