package services

import (
	"path/filepath"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/mocks"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/internal/state_managers"
	"github.com/wristcare/monitor-agent/pkg/siren"
)

// TestRemoteControlService_StartStop tests subscribing and unsubscribing on
// both per-monitor topics.
func TestRemoteControlService_StartStop(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.NewMock()
	client := new(mocks.MockBackendClient)
	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	sess := session.NewSession("", logger)

	token := new(mocks.MockToken)
	token.On("Wait").Return(true)
	token.On("Error").Return(nil)

	mqttClient := new(mocks.MockMQTTClient)
	mqttClient.On("Subscribe", "monitors/ack/mon-1", byte(1), mock.Anything).Return(token)
	mqttClient.On("Subscribe", "monitors/focus/mon-1", byte(1), mock.Anything).Return(token)
	mqttClient.On("Unsubscribe", []string{"monitors/ack/mon-1"}).Return(token)
	mqttClient.On("Unsubscribe", []string{"monitors/focus/mon-1"}).Return(token)

	monitorInfo := new(mocks.MockMonitorInfo)
	monitorInfo.On("GetMonitorID").Return("mon-1")

	rc := NewRemoteControlService("monitors/ack", "monitors/focus", 1, manager, sess, monitorInfo, mqttClient, logger)

	// Execute
	err := rc.Start()
	assert.NoError(t, err)

	err = rc.Stop()
	assert.NoError(t, err)

	// Assert
	mqttClient.AssertExpectations(t)
}

// TestRemoteControlService_HandleAck tests that a valid acknowledge request
// lands on the device's alert machine and reaches the backend.
func TestRemoteControlService_HandleAck(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.NewMock()
	client := new(mocks.MockBackendClient)
	client.On("ClearAlert", mock.Anything, "wrist-7", "remote-op").Return(nil)
	client.On("AlertStatus", mock.Anything, "wrist-7").Return(models.AlertFlags{}, nil)

	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	sess := session.NewSession("wrist-7", logger)

	manager.Evaluate("wrist-7", models.AlertFlags{Active: true, Fall: 1})

	mqttClient := new(mocks.MockMQTTClient)
	monitorInfo := new(mocks.MockMonitorInfo)
	monitorInfo.On("GetMonitorID").Return("mon-1")

	rc := NewRemoteControlService("monitors/ack", "monitors/focus", 1, manager, sess, monitorInfo, mqttClient, logger)

	msg := new(mocks.MockMessage)
	msg.On("Payload").Return([]byte(`{"device_id":"wrist-7","operator":"remote-op"}`))
	msg.On("Topic").Return("monitors/ack/mon-1")

	// Execute
	rc.HandleAck(nil, msg)

	// Assert
	rec, ok := manager.Lookup("wrist-7")
	assert.True(t, ok)
	assert.Equal(t, constants.AlertStateAcknowledged, rec.State)
	assert.False(t, sirenClient.Snapshot().Active)
	client.AssertCalled(t, "ClearAlert", mock.Anything, "wrist-7", "remote-op")
}

// TestRemoteControlService_HandleAck_BadPayload tests that junk on the
// acknowledge topic is dropped without touching any state.
func TestRemoteControlService_HandleAck_BadPayload(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.NewMock()
	client := new(mocks.MockBackendClient)
	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	sess := session.NewSession("", logger)

	mqttClient := new(mocks.MockMQTTClient)
	monitorInfo := new(mocks.MockMonitorInfo)
	monitorInfo.On("GetMonitorID").Return("mon-1")

	rc := NewRemoteControlService("monitors/ack", "monitors/focus", 1, manager, sess, monitorInfo, mqttClient, logger)

	msg := new(mocks.MockMessage)
	msg.On("Payload").Return([]byte(`not-json`))
	msg.On("Topic").Return("monitors/ack/mon-1")

	// Execute
	rc.HandleAck(nil, msg)

	// Assert
	client.AssertNotCalled(t, "ClearAlert", mock.Anything, mock.Anything, mock.Anything)
}

// TestRemoteControlService_HandleFocus tests that a focus request switches
// the watched device.
func TestRemoteControlService_HandleFocus(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.NewMock()
	client := new(mocks.MockBackendClient)
	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	sess := session.NewSession("wrist-1", logger)

	mqttClient := new(mocks.MockMQTTClient)
	monitorInfo := new(mocks.MockMonitorInfo)
	monitorInfo.On("GetMonitorID").Return("mon-1")

	rc := NewRemoteControlService("monitors/ack", "monitors/focus", 1, manager, sess, monitorInfo, mqttClient, logger)

	msg := new(mocks.MockMessage)
	msg.On("Payload").Return([]byte(`{"device_id":"wrist-9"}`))

	// Execute
	rc.HandleFocus(nil, msg)

	// Assert
	assert.Equal(t, "wrist-9", sess.FocusedDevice())
}
