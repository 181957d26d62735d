package state_managers

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/constants"
)

// AckStateManager persists acknowledged (device, type) pairs across monitor
// restarts. Entries are purged the moment the backend reports a device
// fully inactive, so a stale file can only ever suppress a still-active
// condition, never hide a new one.
type AckStateManager struct {
	filePath string
	logger   zerolog.Logger
	mu       sync.Mutex
}

// NewAckStateManager initializes a new AckStateManager.
func NewAckStateManager(filePath string, logger zerolog.Logger) *AckStateManager {
	return &AckStateManager{
		filePath: filePath,
		logger:   logger,
	}
}

// LoadState reads all persisted acknowledgments, keyed by device id. A
// missing file is an empty state, not an error.
func (sm *AckStateManager) LoadState() (map[string][]constants.AlertType, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.loadLocked()
}

// AddAck records one acknowledged (device, type) pair.
func (sm *AckStateManager) AddAck(deviceID string, alertType constants.AlertType) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	states, err := sm.loadLocked()
	if err != nil {
		return err
	}

	for _, existing := range states[deviceID] {
		if existing == alertType {
			return nil
		}
	}
	states[deviceID] = append(states[deviceID], alertType)

	return sm.saveLocked(states)
}

// PurgeDevice drops every acknowledgment for a device.
func (sm *AckStateManager) PurgeDevice(deviceID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	states, err := sm.loadLocked()
	if err != nil {
		return err
	}

	if _, ok := states[deviceID]; !ok {
		return nil
	}
	delete(states, deviceID)

	return sm.saveLocked(states)
}

func (sm *AckStateManager) loadLocked() (map[string][]constants.AlertType, error) {
	data, err := os.ReadFile(sm.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string][]constants.AlertType), nil
		}
		sm.logger.Error().Err(err).Msg("Failed to read acknowledgment state file")
		return nil, err
	}

	var states map[string][]constants.AlertType
	if err := json.Unmarshal(data, &states); err != nil {
		sm.logger.Error().Err(err).Msg("Failed to unmarshal acknowledgment state file")
		return nil, err
	}
	if states == nil {
		states = make(map[string][]constants.AlertType)
	}
	return states, nil
}

func (sm *AckStateManager) saveLocked(states map[string][]constants.AlertType) error {
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		sm.logger.Error().Err(err).Msg("Failed to marshal acknowledgment state")
		return err
	}

	if err := os.WriteFile(sm.filePath, data, 0600); err != nil {
		sm.logger.Error().Err(err).Msg("Failed to write acknowledgment state file")
		return err
	}
	return nil
}
