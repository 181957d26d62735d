package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/pkg/backend"
)

// StatusService polls the backend for the focused device's latest snapshot,
// caches it and drives the device's alert machine from the returned flags.
type StatusService struct {
	client   backend.Client
	store    *session.DeviceStore
	manager  *alerting.Manager
	session  *session.Session
	interval time.Duration
	timeout  time.Duration
	clk      clock.Clock
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStatusService initializes a new StatusService.
func NewStatusService(
	client backend.Client,
	store *session.DeviceStore,
	manager *alerting.Manager,
	sess *session.Session,
	interval, timeout time.Duration,
	clk clock.Clock,
	logger zerolog.Logger,
) *StatusService {
	return &StatusService{
		client:   client,
		store:    store,
		manager:  manager,
		session:  sess,
		interval: interval,
		timeout:  timeout,
		clk:      clk,
		logger:   logger,
	}
}

// Start launches the status polling loop in a separate goroutine.
func (s *StatusService) Start() error {
	if s.ctx != nil {
		s.logger.Warn().Msg("StatusService is already running")
		return errors.New("status service is already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runStatusLoop()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("StatusService started successfully")
	return nil
}

// Stop gracefully stops the status service.
func (s *StatusService) Stop() error {
	if s.ctx == nil {
		s.logger.Warn().Msg("StatusService is not running")
		return errors.New("status service is not running")
	}

	s.cancel()
	s.wg.Wait()

	s.ctx = nil
	s.cancel = nil

	s.logger.Info().Msg("StatusService stopped successfully")
	return nil
}

// runStatusLoop polls on a fixed cadence. Failed polls back off by skipping
// ticks, so the cadence itself never drifts.
func (s *StatusService) runStatusLoop() {
	ticker := s.clk.Ticker(s.interval)
	defer ticker.Stop()

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = constants.PollBackoffCap
	bo.MaxElapsedTime = 0
	var retryAt time.Time

	for {
		select {
		case <-ticker.C:
			now := s.clk.Now()
			if now.Before(retryAt) {
				continue
			}
			if err := s.pollOnce(); err != nil {
				retryAt = now.Add(bo.NextBackOff())
				s.logger.Warn().Err(err).Time("retry_at", retryAt).Msg("Status poll failed, backing off")
				continue
			}
			bo.Reset()
			retryAt = time.Time{}

		case <-s.ctx.Done():
			s.logger.Info().Msg("StatusService stopping gracefully")
			return
		}
	}
}

// pollOnce fetches the focused device's snapshot. The device id is captured
// before the request goes out; if the operator switches focus while the
// request is in flight, the stale reply is dropped rather than driving
// another device's alert machine.
func (s *StatusService) pollOnce() error {
	deviceID := s.session.FocusedDevice()
	if deviceID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	status, err := s.client.Latest(ctx, deviceID)
	if err != nil {
		return err
	}

	if s.session.FocusedDevice() != deviceID {
		s.logger.Debug().Str("device_id", deviceID).Msg("Focus moved during poll, dropping stale status")
		return nil
	}

	s.store.UpdateStatus(deviceID, status, s.clk.Now())
	s.manager.Evaluate(deviceID, status.Flags())
	return nil
}
