package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockFileOperations is a mock implementation of the file.FileOperations interface
type MockFileOperations struct {
	mock.Mock
}

// IsFileExists checks whether the given path exists
func (m *MockFileOperations) IsFileExists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

// ReadFile reads the file at the given path
func (m *MockFileOperations) ReadFile(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

// ReadJsonFile reads and unmarshals a JSON file into out
func (m *MockFileOperations) ReadJsonFile(path string, out interface{}) error {
	args := m.Called(path, out)
	return args.Error(0)
}

// ReadYamlFile reads and unmarshals a YAML file into out
func (m *MockFileOperations) ReadYamlFile(path string, out interface{}) error {
	args := m.Called(path, out)
	return args.Error(0)
}

// WriteJsonFile marshals v and writes it to the given path
func (m *MockFileOperations) WriteJsonFile(path string, v interface{}) error {
	args := m.Called(path, v)
	return args.Error(0)
}
