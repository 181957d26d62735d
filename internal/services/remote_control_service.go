package services

import (
	"context"
	"encoding/json"
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/pkg/identity"
	"github.com/wristcare/monitor-agent/pkg/mqtt"
)

// RemoteControlService lets an operator act on this station from elsewhere:
// it subscribes for acknowledge requests and focus switches addressed to
// this monitor and applies them as if entered locally.
type RemoteControlService struct {
	// Configuration Fields
	ackTopic   string
	focusTopic string
	qos        int

	// Dependencies
	manager     *alerting.Manager
	session     *session.Session
	monitorInfo identity.MonitorInfoInterface
	mqttClient  mqtt.MQTTClient
	logger      zerolog.Logger

	// Internal state management
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRemoteControlService initializes a new RemoteControlService with the given parameters.
func NewRemoteControlService(
	ackTopic, focusTopic string,
	qos int,
	manager *alerting.Manager,
	sess *session.Session,
	monitorInfo identity.MonitorInfoInterface,
	mqttClient mqtt.MQTTClient,
	logger zerolog.Logger,
) *RemoteControlService {
	ctx, cancel := context.WithCancel(context.Background())

	return &RemoteControlService{
		ackTopic:    ackTopic,
		focusTopic:  focusTopic,
		qos:         qos,
		manager:     manager,
		session:     sess,
		monitorInfo: monitorInfo,
		mqttClient:  mqttClient,
		logger:      logger,
		stopChan:    make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start subscribes to the acknowledge and focus topics for this monitor.
func (rc *RemoteControlService) Start() error {
	monitorID := rc.monitorInfo.GetMonitorID()

	ackTopic := rc.ackTopic + "/" + monitorID
	token := rc.mqttClient.Subscribe(ackTopic, byte(rc.qos), rc.HandleAck)
	token.Wait()
	if err := token.Error(); err != nil {
		rc.logger.Error().Err(err).Str("topic", ackTopic).Msg("Failed to subscribe to acknowledge topic")
		return err
	}

	focusTopic := rc.focusTopic + "/" + monitorID
	token = rc.mqttClient.Subscribe(focusTopic, byte(rc.qos), rc.HandleFocus)
	token.Wait()
	if err := token.Error(); err != nil {
		rc.logger.Error().Err(err).Str("topic", focusTopic).Msg("Failed to subscribe to focus topic")
		return err
	}

	rc.logger.Info().
		Str("ack_topic", ackTopic).
		Str("focus_topic", focusTopic).
		Msg("RemoteControlService started successfully")
	return nil
}

// Stop unsubscribes from both topics and waits for in-flight handlers.
func (rc *RemoteControlService) Stop() error {
	rc.cancel()
	close(rc.stopChan)
	rc.wg.Wait()

	monitorID := rc.monitorInfo.GetMonitorID()
	for _, topic := range []string{rc.ackTopic + "/" + monitorID, rc.focusTopic + "/" + monitorID} {
		token := rc.mqttClient.Unsubscribe(topic)
		token.Wait()
		if err := token.Error(); err != nil {
			rc.logger.Error().Err(err).Str("topic", topic).Msg("Failed to unsubscribe from MQTT topic")
			return err
		}
	}

	rc.logger.Info().Msg("RemoteControlService stopped successfully")
	return nil
}

// HandleAck processes an incoming acknowledge request.
func (rc *RemoteControlService) HandleAck(client MQTT.Client, msg MQTT.Message) {
	if !rc.beginHandling() {
		return
	}
	defer rc.wg.Done()

	var req models.AckRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		rc.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("Failed to parse acknowledge request")
		return
	}
	if req.DeviceID == "" {
		rc.logger.Warn().Str("topic", msg.Topic()).Msg("Acknowledge request without device id, ignoring")
		return
	}

	if err := rc.manager.Acknowledge(rc.ctx, req.DeviceID, req.Operator); err != nil {
		rc.logger.Warn().Err(err).Str("device_id", req.DeviceID).Msg("Remote acknowledge failed")
		return
	}

	rc.logger.Info().
		Str("device_id", req.DeviceID).
		Str("operator", req.Operator).
		Msg("Remote acknowledge applied")
}

// HandleFocus processes an incoming focus switch.
func (rc *RemoteControlService) HandleFocus(client MQTT.Client, msg MQTT.Message) {
	if !rc.beginHandling() {
		return
	}
	defer rc.wg.Done()

	var req models.FocusRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		rc.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("Failed to parse focus request")
		return
	}
	if req.DeviceID == "" {
		rc.logger.Warn().Str("topic", msg.Topic()).Msg("Focus request without device id, ignoring")
		return
	}

	rc.session.SetFocusedDevice(req.DeviceID)
}

// beginHandling registers an in-flight handler unless the service is
// stopping.
func (rc *RemoteControlService) beginHandling() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	select {
	case <-rc.stopChan:
		rc.logger.Warn().Msg("Received message but service is stopping, ignoring")
		return false
	default:
		rc.wg.Add(1)
		return true
	}
}
