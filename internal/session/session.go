package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is the explicit mutable context of one monitoring run: a stable
// id for attributing this run's actions and the device the operator is
// currently focused on. Everything else the monitor tracks lives in the
// device store or the alert manager.
type Session struct {
	id     string
	logger zerolog.Logger

	mu      sync.RWMutex
	focused string
}

// NewSession creates a session focused on the given device.
func NewSession(initialDevice string, logger zerolog.Logger) *Session {
	return &Session{
		id:      uuid.NewString(),
		focused: initialDevice,
		logger:  logger,
	}
}

// ID returns the unique id of this monitoring run.
func (s *Session) ID() string {
	return s.id
}

// FocusedDevice returns the device whose detail view the operator is on.
func (s *Session) FocusedDevice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

// SetFocusedDevice switches the operator's view. The global arbiter reads
// the focus on its next pass, which is what dismisses a banner after a
// switch to the alerting device.
func (s *Session) SetFocusedDevice(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focused == deviceID {
		return
	}
	s.logger.Info().
		Str("from", s.focused).
		Str("to", deviceID).
		Msg("Focused device changed")
	s.focused = deviceID
}
