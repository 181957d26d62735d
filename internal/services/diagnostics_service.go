package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/diagnostics"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/internal/utils"
	"github.com/wristcare/monitor-agent/pkg/identity"
	"github.com/wristcare/monitor-agent/pkg/mqtt"
)

// DiagnosticsService samples the station's own runtime health and publishes
// it over MQTT, so a fleet operator can spot a dying monitor before the
// people relying on it do.
type DiagnosticsService struct {
	pubTopic       string
	interval       time.Duration
	timeout        time.Duration
	qos            int
	collectorNames []string
	monitorInfo    identity.MonitorInfoInterface
	mqttClient     mqtt.MQTTClient
	clk            clock.Clock
	logger         zerolog.Logger
	registry       *diagnostics.Registry
	workerPool     *utils.WorkerPool

	enabled map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDiagnosticsService initializes a DiagnosticsService with the default
// collector set registered.
func NewDiagnosticsService(
	pubTopic string,
	interval, timeout time.Duration,
	qos int,
	collectorNames []string,
	monitorInfo identity.MonitorInfoInterface,
	mqttClient mqtt.MQTTClient,
	clk clock.Clock,
	logger zerolog.Logger,
) *DiagnosticsService {
	service := &DiagnosticsService{
		pubTopic:       pubTopic,
		interval:       interval,
		timeout:        timeout,
		qos:            qos,
		collectorNames: collectorNames,
		monitorInfo:    monitorInfo,
		mqttClient:     mqttClient,
		clk:            clk,
		logger:         logger,
		registry:       diagnostics.NewRegistry(),
		workerPool:     utils.NewWorkerPool(4),
	}

	service.registerDefaultCollectors()

	return service
}

// registerDefaultCollectors registers the default collector set.
func (d *DiagnosticsService) registerDefaultCollectors() {
	d.registry.Register(&diagnostics.CPUCollector{Logger: d.logger})
	d.registry.Register(&diagnostics.MemoryCollector{Logger: d.logger})
	d.registry.Register(&diagnostics.DiskCollector{Logger: d.logger})
	d.registry.Register(&diagnostics.NetworkCollector{Logger: d.logger})
	d.registry.Register(&diagnostics.GoroutineCollector{Logger: d.logger})
}

// Start launches the sampling loop. An empty collector list in the
// configuration enables every registered collector.
func (d *DiagnosticsService) Start() error {
	if d.ctx != nil {
		d.logger.Warn().Msg("DiagnosticsService is already running")
		return errors.New("diagnostics service is already running")
	}

	d.enabled = utils.SliceToSet(d.collectorNames)

	d.ctx, d.cancel = context.WithCancel(context.Background())

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.runSamplingLoop()
	}()

	d.logger.Info().Str("topic", d.pubTopic).Msg("DiagnosticsService started successfully")
	return nil
}

// Stop gracefully stops the diagnostics service and its worker pool.
func (d *DiagnosticsService) Stop() error {
	if d.ctx == nil {
		d.logger.Warn().Msg("DiagnosticsService is not running")
		return errors.New("diagnostics service is not running")
	}

	d.cancel()
	d.wg.Wait()
	d.workerPool.Shutdown()

	d.ctx = nil
	d.cancel = nil

	d.logger.Info().Msg("DiagnosticsService stopped successfully")
	return nil
}

func (d *DiagnosticsService) runSamplingLoop() {
	ticker := d.clk.Ticker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sample := d.collectSample()
			if err := d.publishSample(sample); err != nil {
				d.logger.Warn().Err(err).Msg("Failed to publish diagnostics sample")
			}
		case <-d.ctx.Done():
			d.logger.Info().Msg("DiagnosticsService stopping gracefully")
			return
		}
	}
}

// collectSample runs the enabled collectors concurrently on the worker pool
// and gathers their readings into one sample.
func (d *DiagnosticsService) collectSample() *models.MonitorDiagnostics {
	sample := &models.MonitorDiagnostics{
		MonitorID: d.monitorInfo.GetMonitorID(),
		Timestamp: d.clk.Now().UTC(),
		Readings:  make(map[string]models.Reading),
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	var wg sync.WaitGroup
	mu := &sync.Mutex{}

	for name, collector := range d.registry.Collectors() {
		name, collector := name, collector
		if len(d.enabled) > 0 {
			if _, ok := d.enabled[name]; !ok {
				continue
			}
		}

		wg.Add(1)
		d.workerPool.Submit(func() {
			defer wg.Done()
			value := collector.Collect(ctx)
			if value == nil {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			sample.Readings[name] = models.Reading{
				Value: value,
				Unit:  collector.Unit(),
			}
		})
	}

	wg.Wait()
	return sample
}

// publishSample sends one sample via MQTT.
func (d *DiagnosticsService) publishSample(sample *models.MonitorDiagnostics) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	token := d.mqttClient.Publish(d.pubTopic, byte(d.qos), false, payload)
	token.Wait()
	return token.Error()
}
