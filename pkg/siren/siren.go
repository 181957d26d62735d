package siren

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/constants"
)

// Siren is the single system-wide audible signal. Engaging the same device
// and type again is a no-op; engaging a different one preempts the current
// signal. At most one signal plays at a time.
type Siren interface {
	Engage(deviceID string, alertType constants.AlertType)
	Silence()
	Snapshot() Status
}

// Status describes the signal currently playing, if any. Generation and
// StartedAt stay stable across repeated identical Engage calls, which is
// how callers can tell a continued signal from a restarted one.
type Status struct {
	Active     bool
	DeviceID   string
	Type       constants.AlertType
	StartedAt  time.Time
	Generation uint64
	Pulses     uint64
}

// PulseSiren emits a pulse immediately on engage and then repeats at the
// fixed cadence until silenced or preempted.
type PulseSiren struct {
	cadence time.Duration
	clk     clock.Clock
	logger  zerolog.Logger

	mu         sync.Mutex
	active     bool
	deviceID   string
	alertType  constants.AlertType
	startedAt  time.Time
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	pulses atomic.Uint64
}

// NewPulseSiren initializes a silent siren.
func NewPulseSiren(clk clock.Clock, logger zerolog.Logger) *PulseSiren {
	return &PulseSiren{
		cadence: constants.SirenCadence,
		clk:     clk,
		logger:  logger,
	}
}

// Engage starts the signal for (deviceID, alertType). A repeat of the
// currently playing pair keeps the running signal untouched.
func (s *PulseSiren) Engage(deviceID string, alertType constants.AlertType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active && s.deviceID == deviceID && s.alertType == alertType {
		return
	}
	s.stopLocked()

	s.active = true
	s.deviceID = deviceID
	s.alertType = alertType
	s.startedAt = s.clk.Now()
	s.generation++

	s.logger.Warn().
		Str("device_id", deviceID).
		Str("type", string(alertType)).
		Msg("Siren engaged")
	s.beep(deviceID, alertType)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	ticker := s.clk.Ticker(s.cadence)

	s.wg.Add(1)
	go s.pulseLoop(ctx, ticker, deviceID, alertType)
}

// Silence stops the signal. Acknowledging an alert and an all-clear report
// both end up here.
func (s *PulseSiren) Silence() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	s.stopLocked()
	s.logger.Info().Msg("Siren silenced")
}

// Snapshot returns the current signal state.
func (s *PulseSiren) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Active:     s.active,
		DeviceID:   s.deviceID,
		Type:       s.alertType,
		StartedAt:  s.startedAt,
		Generation: s.generation,
		Pulses:     s.pulses.Load(),
	}
}

func (s *PulseSiren) pulseLoop(ctx context.Context, ticker *clock.Ticker, deviceID string, alertType constants.AlertType) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.beep(deviceID, alertType)
		}
	}
}

// beep is the audible pulse. The agent is headless, so the pulse surfaces
// as a warning record for whatever rings the physical bell.
func (s *PulseSiren) beep(deviceID string, alertType constants.AlertType) {
	s.pulses.Add(1)
	s.logger.Warn().
		Str("device_id", deviceID).
		Str("type", string(alertType)).
		Msg("Siren pulse")
}

func (s *PulseSiren) stopLocked() {
	if !s.active {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.cancel = nil
	s.active = false
	s.deviceID = ""
	s.alertType = ""
}
