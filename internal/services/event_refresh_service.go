package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/incidents"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/internal/sleep"
	"github.com/wristcare/monitor-agent/pkg/backend"
)

// EventRefreshService re-reads each tracked device's event history and
// recomputes its sleep intervals and rolling incident counts. History moves
// slowly, so the cadence is minutes where the status poll is seconds.
type EventRefreshService struct {
	client   backend.Client
	store    *session.DeviceStore
	session  *session.Session
	tracked  []string
	interval time.Duration
	timeout  time.Duration
	clk      clock.Clock
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEventRefreshService initializes a new EventRefreshService.
func NewEventRefreshService(
	client backend.Client,
	store *session.DeviceStore,
	sess *session.Session,
	tracked []string,
	interval, timeout time.Duration,
	clk clock.Clock,
	logger zerolog.Logger,
) *EventRefreshService {
	return &EventRefreshService{
		client:   client,
		store:    store,
		session:  sess,
		tracked:  tracked,
		interval: interval,
		timeout:  timeout,
		clk:      clk,
		logger:   logger,
	}
}

// Start refreshes every tracked device once, then launches the periodic
// refresh loop in a separate goroutine.
func (e *EventRefreshService) Start() error {
	if e.ctx != nil {
		e.logger.Warn().Msg("EventRefreshService is already running")
		return errors.New("event refresh service is already running")
	}

	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.refreshAll()
		e.runRefreshLoop()
	}()

	e.logger.Info().Dur("interval", e.interval).Msg("EventRefreshService started successfully")
	return nil
}

// Stop gracefully stops the event refresh service.
func (e *EventRefreshService) Stop() error {
	if e.ctx == nil {
		e.logger.Warn().Msg("EventRefreshService is not running")
		return errors.New("event refresh service is not running")
	}

	e.cancel()
	e.wg.Wait()

	e.ctx = nil
	e.cancel = nil

	e.logger.Info().Msg("EventRefreshService stopped successfully")
	return nil
}

func (e *EventRefreshService) runRefreshLoop() {
	ticker := e.clk.Ticker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.refreshAll()
		case <-e.ctx.Done():
			e.logger.Info().Msg("EventRefreshService stopping gracefully")
			return
		}
	}
}

// refreshAll walks the tracked devices plus whichever device is focused
// right now. A failure on one device never blocks the rest.
func (e *EventRefreshService) refreshAll() {
	seen := make(map[string]bool, len(e.tracked)+1)
	devices := make([]string, 0, len(e.tracked)+1)
	for _, id := range e.tracked {
		if id != "" && !seen[id] {
			seen[id] = true
			devices = append(devices, id)
		}
	}
	if focused := e.session.FocusedDevice(); focused != "" && !seen[focused] {
		devices = append(devices, focused)
	}

	for _, deviceID := range devices {
		if e.ctx.Err() != nil {
			return
		}
		if err := e.refreshDevice(deviceID); err != nil {
			e.logger.Warn().Err(err).Str("device_id", deviceID).Msg("Event refresh failed")
		}
	}
}

func (e *EventRefreshService) refreshDevice(deviceID string) error {
	ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
	defer cancel()

	evs, err := e.client.Events(ctx, deviceID)
	if err != nil {
		return err
	}

	now := e.clk.Now()
	report := sleep.Segment(evs, now)
	tally := incidents.Tally(evs, now)
	e.store.UpdateDerived(deviceID, report, tally, now)

	e.logger.Debug().
		Str("device_id", deviceID).
		Int("events", len(evs)).
		Float64("sleep_hours", report.TotalSleepHours).
		Msg("Device history refreshed")
	return nil
}
