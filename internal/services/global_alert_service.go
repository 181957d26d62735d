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
	"github.com/wristcare/monitor-agent/pkg/backend"
)

// GlobalAlertService polls the fleet-wide alert summary and hands each poll
// to the arbiter, which reconciles every device's alert machine and surfaces
// at most one cross-device banner.
type GlobalAlertService struct {
	client   backend.Client
	arbiter  *alerting.Arbiter
	interval time.Duration
	timeout  time.Duration
	clk      clock.Clock
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGlobalAlertService initializes a new GlobalAlertService.
func NewGlobalAlertService(
	client backend.Client,
	arbiter *alerting.Arbiter,
	interval, timeout time.Duration,
	clk clock.Clock,
	logger zerolog.Logger,
) *GlobalAlertService {
	return &GlobalAlertService{
		client:   client,
		arbiter:  arbiter,
		interval: interval,
		timeout:  timeout,
		clk:      clk,
		logger:   logger,
	}
}

// Start launches the summary polling loop in a separate goroutine.
func (g *GlobalAlertService) Start() error {
	if g.ctx != nil {
		g.logger.Warn().Msg("GlobalAlertService is already running")
		return errors.New("global alert service is already running")
	}

	g.ctx, g.cancel = context.WithCancel(context.Background())

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.runSummaryLoop()
	}()

	g.logger.Info().Dur("interval", g.interval).Msg("GlobalAlertService started successfully")
	return nil
}

// Stop gracefully stops the global alert service.
func (g *GlobalAlertService) Stop() error {
	if g.ctx == nil {
		g.logger.Warn().Msg("GlobalAlertService is not running")
		return errors.New("global alert service is not running")
	}

	g.cancel()
	g.wg.Wait()

	g.ctx = nil
	g.cancel = nil

	g.logger.Info().Msg("GlobalAlertService stopped successfully")
	return nil
}

func (g *GlobalAlertService) runSummaryLoop() {
	ticker := g.clk.Ticker(g.interval)
	defer ticker.Stop()

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = constants.PollBackoffCap
	bo.MaxElapsedTime = 0
	var retryAt time.Time

	for {
		select {
		case <-ticker.C:
			now := g.clk.Now()
			if now.Before(retryAt) {
				continue
			}
			if err := g.pollOnce(); err != nil {
				retryAt = now.Add(bo.NextBackOff())
				g.logger.Warn().Err(err).Time("retry_at", retryAt).Msg("Alert summary poll failed, backing off")
				continue
			}
			bo.Reset()
			retryAt = time.Time{}

		case <-g.ctx.Done():
			g.logger.Info().Msg("GlobalAlertService stopping gracefully")
			return
		}
	}
}

// pollOnce fetches the summary and lets the arbiter act on it. A failed
// poll is not an all-quiet summary: sirens and banners hold their state
// until a poll actually succeeds.
func (g *GlobalAlertService) pollOnce() error {
	ctx, cancel := context.WithTimeout(g.ctx, g.timeout)
	defer cancel()

	entries, err := g.client.AlertsAll(ctx)
	if err != nil {
		return err
	}

	g.arbiter.Observe(entries)
	return nil
}
