package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wristcare/monitor-agent/internal/alerting"
	"github.com/wristcare/monitor-agent/internal/mocks"
	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/internal/session"
	"github.com/wristcare/monitor-agent/internal/state_managers"
	"github.com/wristcare/monitor-agent/pkg/siren"
)

// TestGlobalAlertService_StartStop tests the start/stop lifecycle of the GlobalAlertService.
func TestGlobalAlertService_StartStop(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.New()
	client := new(mocks.MockBackendClient)
	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	notifier := new(mocks.MockNotifier)
	sess := session.NewSession("", logger)
	arbiter := alerting.NewArbiter(manager, notifier, sess, "mon-1", clk, logger)

	g := NewGlobalAlertService(client, arbiter, time.Hour, time.Second, clk, logger)

	// Execute
	err := g.Start()

	// Assert
	assert.NoError(t, err)

	// Try to start again (should fail)
	err = g.Start()
	assert.Error(t, err)
	assert.Equal(t, "global alert service is already running", err.Error())

	// Cleanup
	err = g.Stop()
	assert.NoError(t, err)

	// Try to stop again (should fail)
	err = g.Stop()
	assert.Error(t, err)
	assert.Equal(t, "global alert service is not running", err.Error())
}

// TestGlobalAlertService_RaisesBannerFromSummary tests a full poll cycle:
// the summary reaches the arbiter and an unfocused device's condition
// surfaces as a banner.
func TestGlobalAlertService_RaisesBannerFromSummary(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.New()
	client := new(mocks.MockBackendClient)
	client.On("AlertsAll", mock.Anything).Return([]models.AlertSummaryEntry{
		{DeviceID: "wrist-2", Name: "Bob", Seizure: 1},
	}, nil)

	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	notifier := new(mocks.MockNotifier)
	notifier.On("ShowBanner", mock.Anything).Return(nil)
	sess := session.NewSession("wrist-1", logger)
	arbiter := alerting.NewArbiter(manager, notifier, sess, "mon-1", clk, logger)

	g := NewGlobalAlertService(client, arbiter, 50*time.Millisecond, time.Second, clk, logger)

	// Execute
	err := g.Start()
	assert.NoError(t, err)

	// Assert
	assert.Eventually(t, func() bool {
		banner, ok := arbiter.CurrentBanner()
		return ok && banner.DeviceID == "wrist-2"
	}, time.Second, 10*time.Millisecond)
	assert.True(t, sirenClient.Snapshot().Active)

	// Cleanup
	assert.NoError(t, g.Stop())
	sirenClient.Silence()
}

// TestGlobalAlertService_FailedPollHoldsState tests that poll errors leave
// the banner and siren exactly as they were.
func TestGlobalAlertService_FailedPollHoldsState(t *testing.T) {
	// Setup
	logger := zerolog.Nop()
	clk := clock.New()
	client := new(mocks.MockBackendClient)
	client.On("AlertsAll", mock.Anything).Return(nil, assert.AnError)

	sirenClient := siren.NewPulseSiren(clk, logger)
	ackStore := state_managers.NewAckStateManager(filepath.Join(t.TempDir(), "acks.json"), logger)
	manager := alerting.NewManager(sirenClient, client, ackStore, clk, "station-1", logger)
	notifier := new(mocks.MockNotifier)
	notifier.On("ShowBanner", mock.Anything).Return(nil)
	sess := session.NewSession("wrist-1", logger)
	arbiter := alerting.NewArbiter(manager, notifier, sess, "mon-1", clk, logger)

	arbiter.Observe([]models.AlertSummaryEntry{{DeviceID: "wrist-2", Seizure: 1}})
	_, ok := arbiter.CurrentBanner()
	assert.True(t, ok)

	g := NewGlobalAlertService(client, arbiter, 30*time.Millisecond, time.Second, clk, logger)

	// Execute
	err := g.Start()
	assert.NoError(t, err)
	time.Sleep(150 * time.Millisecond)

	// Cleanup
	assert.NoError(t, g.Stop())

	// Assert
	banner, ok := arbiter.CurrentBanner()
	assert.True(t, ok)
	assert.Equal(t, "wrist-2", banner.DeviceID)
	assert.True(t, sirenClient.Snapshot().Active)
	notifier.AssertNotCalled(t, "ClearBanner")

	sirenClient.Silence()
}
