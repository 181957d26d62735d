package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMessage is a mock implementation of the mqtt.Message interface
type MockMessage struct {
	mock.Mock
}

func (m *MockMessage) Duplicate() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessage) Qos() byte {
	args := m.Called()
	return args.Get(0).(byte)
}

func (m *MockMessage) Retained() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessage) Topic() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMessage) MessageID() uint16 {
	args := m.Called()
	return args.Get(0).(uint16)
}

func (m *MockMessage) Payload() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockMessage) Ack() {
	m.Called()
}
