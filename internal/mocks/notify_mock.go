package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/wristcare/monitor-agent/internal/models"
)

// MockNotifier is a mock implementation of the notify.Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ShowBanner(banner models.Banner) error {
	args := m.Called(banner)
	return args.Error(0)
}

func (m *MockNotifier) ClearBanner() error {
	args := m.Called()
	return args.Error(0)
}
