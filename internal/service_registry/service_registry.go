package service_registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/registry"
	"github.com/wristcare/monitor-agent/internal/services"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/internal/utils"
	"github.com/wristcare/monitor-agent/pkg/backend"
	"github.com/wristcare/monitor-agent/pkg/identity"
	"github.com/wristcare/monitor-agent/pkg/mqtt"
)

// ServiceRegistry manages the lifecycle of the monitor's services.
type ServiceRegistry struct {
	services    map[string]registry.Service // Stores registered services
	serviceKeys []string                    // Maintains order of service registration
	backend     backend.Client
	mqttClient  mqtt.MQTTClient
	store       *session.DeviceStore
	session     *session.Session
	manager     *alerting.Manager
	arbiter     *alerting.Arbiter
	clk         clock.Clock
	logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
func NewServiceRegistry(
	backendClient backend.Client,
	mqttClient mqtt.MQTTClient,
	store *session.DeviceStore,
	sess *session.Session,
	manager *alerting.Manager,
	arbiter *alerting.Arbiter,
	clk clock.Clock,
	logger zerolog.Logger,
) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]registry.Service),
		backend:    backendClient,
		mqttClient: mqttClient,
		store:      store,
		session:    sess,
		manager:    manager,
		arbiter:    arbiter,
		clk:        clk,
		logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc registry.Service) {
	if _, exists := sr.services[name]; exists {
		sr.logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.logger.Info().Msgf("Registered service: %s", name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			// Stop already started services before returning
			sr.logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return err
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, monitorInfo identity.MonitorInfoInterface) error {
	timeout := time.Duration(config.Backend.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	// Ordered service definitions with inline constructors
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (registry.Service, error)
	}{
		{
			name:    "status",
			enabled: config.Services.Status.Enabled,
			constructor: func() (registry.Service, error) {
				interval := time.Duration(config.Services.Status.Interval) * time.Second
				if interval <= 0 {
					interval = constants.DefaultStatusInterval
				}
				return services.NewStatusService(
					sr.backend,
					sr.store,
					sr.manager,
					sr.session,
					interval,
					timeout,
					sr.clk,
					sr.logger,
				), nil
			},
		},
		{
			name:    "global_alert",
			enabled: config.Services.GlobalAlert.Enabled,
			constructor: func() (registry.Service, error) {
				interval := time.Duration(config.Services.GlobalAlert.Interval) * time.Second
				if interval <= 0 {
					interval = constants.DefaultGlobalAlertInterval
				}
				return services.NewGlobalAlertService(
					sr.backend,
					sr.arbiter,
					interval,
					timeout,
					sr.clk,
					sr.logger,
				), nil
			},
		},
		{
			name:    "event_refresh",
			enabled: config.Services.EventRefresh.Enabled,
			constructor: func() (registry.Service, error) {
				interval := time.Duration(config.Services.EventRefresh.Interval) * time.Second
				if interval <= 0 {
					interval = constants.DefaultEventInterval
				}
				return services.NewEventRefreshService(
					sr.backend,
					sr.store,
					sr.session,
					config.Devices.Tracked,
					interval,
					timeout,
					sr.clk,
					sr.logger,
				), nil
			},
		},
		{
			name:    "remote_control",
			enabled: config.Services.RemoteControl.Enabled,
			constructor: func() (registry.Service, error) {
				if config.Services.RemoteControl.AckTopic == "" || config.Services.RemoteControl.FocusTopic == "" {
					return nil, errors.New("remote control requires ack_topic and focus_topic")
				}
				return services.NewRemoteControlService(
					config.Services.RemoteControl.AckTopic,
					config.Services.RemoteControl.FocusTopic,
					config.Services.RemoteControl.QOS,
					sr.manager,
					sr.session,
					monitorInfo,
					sr.mqttClient,
					sr.logger,
				), nil
			},
		},
		{
			name:    "diagnostics",
			enabled: config.Services.Diagnostics.Enabled,
			constructor: func() (registry.Service, error) {
				interval := time.Duration(config.Services.Diagnostics.Interval) * time.Second
				if interval <= 0 {
					interval = constants.DefaultDiagnosticsInterval
				}
				sampleTimeout := time.Duration(config.Services.Diagnostics.Timeout) * time.Second
				if sampleTimeout <= 0 {
					sampleTimeout = timeout
				}
				return services.NewDiagnosticsService(
					constants.DiagnosticsTopic,
					interval,
					sampleTimeout,
					config.Services.Diagnostics.QOS,
					config.Services.Diagnostics.Collectors,
					monitorInfo,
					sr.mqttClient,
					sr.clk,
					sr.logger,
				), nil
			},
		},
	}

	// Register services in the predefined order
	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if svc.enabled {
			serviceInstance, err := svc.constructor()
			if err != nil {
				sr.logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
				return err
			}
			sr.RegisterService(svc.name, serviceInstance)
			registeredServices = append(registeredServices, svc.name)
		}
	}

	sr.logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}
