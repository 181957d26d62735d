package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/service_registry"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/internal/state_managers"
	"github.com/wristcare/monitor-agent/internal/utils"
	"github.com/wristcare/monitor-agent/pkg/backend"
	"github.com/wristcare/monitor-agent/pkg/file"
	"github.com/wristcare/monitor-agent/pkg/identity"
	"github.com/wristcare/monitor-agent/pkg/mqtt"
	"github.com/wristcare/monitor-agent/pkg/notify"
	"github.com/wristcare/monitor-agent/pkg/siren"
)

func main() {
	// Set up structured logging with JSON output
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig("configs/config.yaml", fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Generate a unique MQTT Client ID by appending a UUID
	config.MQTT.ClientID = config.MQTT.ClientID + "-" + uuid.New().String()
	log.Info().Str("client_id", config.MQTT.ClientID).Msg("Using MQTT Client ID")

	// Initialize the shared MQTT connection
	mqttClient := mqtt.NewMqttService(fileClient)
	err = mqttClient.Initialize(config.MQTT.Broker, config.MQTT.ClientID,
		config.MQTT.Username, config.MQTT.Password, config.MQTT.CACertificate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
	}

	// Load the monitor identity
	monitorInfo := identity.NewMonitorInfo(config.Identity.MonitorFile, fileClient)
	if err := monitorInfo.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load monitor identity")
	}

	operator := config.Operator
	if operator == "" {
		operator = monitorInfo.GetOperator()
	}

	requestTimeout := time.Duration(config.Backend.RequestTimeout) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}
	backendClient := backend.NewHTTPClient(config.Backend.URL, config.Backend.APIKey, requestTimeout, log)

	if config.Files.AckStateFile == "" {
		config.Files.AckStateFile = "state/acks.json"
	}

	// Assemble the alerting core shared by all services
	clk := clock.New()
	sirenClient := siren.NewPulseSiren(clk, log)
	ackStore := state_managers.NewAckStateManager(config.Files.AckStateFile, log)
	manager := alerting.NewManager(sirenClient, backendClient, ackStore, clk, operator, log)
	sess := session.NewSession(config.Devices.Focused, log)
	store := session.NewDeviceStore()

	notifiers := []notify.Notifier{notify.NewLogNotifier(log)}
	if config.Services.GlobalAlert.BannerTopic != "" {
		notifiers = append(notifiers, notify.NewMQTTNotifier(
			mqttClient,
			config.Services.GlobalAlert.BannerTopic,
			byte(config.Services.GlobalAlert.QOS),
			log,
		))
	}
	notifier := notify.NewMultiNotifier(notifiers...)

	arbiter := alerting.NewArbiter(manager, notifier, sess, monitorInfo.GetMonitorID(), clk, log)

	// Create a new service registry to manage services
	serviceRegistry := service_registry.NewServiceRegistry(
		backendClient, mqttClient, store, sess, manager, arbiter, clk, log)

	// Register all services based on the configuration
	if err := serviceRegistry.RegisterServices(config, monitorInfo); err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	// Start all registered services in the registry
	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Service shutdown reported errors")
	}
	sirenClient.Silence()
	mqttClient.Disconnect(250)
}
