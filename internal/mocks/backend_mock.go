package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wristcare/monitor-agent/internal/models"
)

// MockBackendClient is a mock implementation of the backend.Client interface
type MockBackendClient struct {
	mock.Mock
}

func (m *MockBackendClient) Latest(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(models.DeviceStatus), args.Error(1)
}

func (m *MockBackendClient) Events(ctx context.Context, deviceID string) ([]models.Event, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockBackendClient) AlertsAll(ctx context.Context) ([]models.AlertSummaryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AlertSummaryEntry), args.Error(1)
}

func (m *MockBackendClient) AlertStatus(ctx context.Context, deviceID string) (models.AlertFlags, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(models.AlertFlags), args.Error(1)
}

func (m *MockBackendClient) ClearAlert(ctx context.Context, deviceID string, clearedBy string) error {
	args := m.Called(ctx, deviceID, clearedBy)
	return args.Error(0)
}
