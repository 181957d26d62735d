package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMonitorInfo is a mock implementation of the identity.MonitorInfoInterface
type MockMonitorInfo struct {
	mock.Mock
}

// Load loads the monitor identity
func (m *MockMonitorInfo) Load() error {
	args := m.Called()
	return args.Error(0)
}

// GetMonitorID returns the monitor id
func (m *MockMonitorInfo) GetMonitorID() string {
	args := m.Called()
	return args.String(0)
}

// GetOperator returns the operator label
func (m *MockMonitorInfo) GetOperator() string {
	args := m.Called()
	return args.String(0)
}
