package alerting

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/pkg/notify"
)

// FocusProvider reports which device the operator is viewing.
type FocusProvider interface {
	FocusedDevice() string
}

// Arbiter turns each cross-device summary poll into one surfaced alert: it
// reconciles the whole fleet through the manager, picks the single
// highest-priority candidate and decides whether the banner shows. The
// focused device never gets a banner, its detail view already carries the
// alert.
type Arbiter struct {
	manager   *Manager
	notifier  notify.Notifier
	focus     FocusProvider
	monitorID string
	clk       clock.Clock
	logger    zerolog.Logger

	mu         sync.Mutex
	banner     *models.Banner
	remembered string
}

// NewArbiter creates a new Arbiter instance.
func NewArbiter(
	manager *Manager,
	notifier notify.Notifier,
	focus FocusProvider,
	monitorID string,
	clk clock.Clock,
	logger zerolog.Logger,
) *Arbiter {
	return &Arbiter{
		manager:   manager,
		notifier:  notifier,
		focus:     focus,
		monitorID: monitorID,
		clk:       clk,
		logger:    logger,
	}
}

// Observe applies one summary poll. An empty summary clears the banner and
// the remembered device.
func (a *Arbiter) Observe(entries []models.AlertSummaryEntry) {
	a.manager.Reconcile(entries)

	a.mu.Lock()
	defer a.mu.Unlock()

	entry, alertType, ok := pickCandidate(entries)
	if !ok {
		a.remembered = ""
		a.clearLocked()
		return
	}
	a.remembered = entry.DeviceID

	if entry.DeviceID == a.focus.FocusedDevice() {
		a.clearLocked()
		return
	}

	if a.banner != nil && a.banner.DeviceID == entry.DeviceID && a.banner.Type == alertType {
		return
	}

	name := entry.Name
	if name == "" {
		name = entry.DeviceID
	}
	banner := models.Banner{
		DeviceID: entry.DeviceID,
		Name:     name,
		Type:     alertType,
		RaisedAt: a.clk.Now(),
		Monitor:  a.monitorID,
	}
	if err := a.notifier.ShowBanner(banner); err != nil {
		a.logger.Warn().Err(err).Str("device_id", entry.DeviceID).Msg("Failed to show alert banner")
		return
	}
	a.banner = &banner

	a.logger.Info().
		Str("device_id", entry.DeviceID).
		Str("type", string(alertType)).
		Msg("Global alert banner raised")
}

// CurrentBanner returns the banner on display, if any.
func (a *Arbiter) CurrentBanner() (models.Banner, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.banner == nil {
		return models.Banner{}, false
	}
	return *a.banner, true
}

// Remembered returns the device the arbiter last surfaced.
func (a *Arbiter) Remembered() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remembered
}

func (a *Arbiter) clearLocked() {
	if a.banner == nil {
		return
	}
	if err := a.notifier.ClearBanner(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to clear alert banner")
		return
	}
	a.banner = nil
}

// pickCandidate scans priority classes in order and takes the first entry
// inside the winning class, so the choice is stable across polls that list
// devices in the same order.
func pickCandidate(entries []models.AlertSummaryEntry) (models.AlertSummaryEntry, constants.AlertType, bool) {
	for _, alertType := range constants.AlertTypesByPriority {
		for _, e := range entries {
			if flagFor(e.Flags(), alertType) != 0 {
				return e, alertType, true
			}
		}
	}
	return models.AlertSummaryEntry{}, "", false
}
