package service_registry

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	name     string
	startErr error
	log      *[]string
}

func (f *fakeService) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start:"+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

// TestServiceRegistry_StartStopOrder tests that services start in
// registration order and stop in reverse.
func TestServiceRegistry_StartStopOrder(t *testing.T) {
	// Setup
	sr := NewServiceRegistry(nil, nil, nil, nil, nil, nil, clock.New(), zerolog.Nop())
	log := []string{}
	sr.RegisterService("first", &fakeService{name: "first", log: &log})
	sr.RegisterService("second", &fakeService{name: "second", log: &log})

	// Execute
	err := sr.StartServices()
	assert.NoError(t, err)
	err = sr.StopServices()
	assert.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"start:first", "start:second", "stop:second", "stop:first"}, log)
}

// TestServiceRegistry_StartFailureRollsBack tests that a failed start stops
// the services that already came up.
func TestServiceRegistry_StartFailureRollsBack(t *testing.T) {
	// Setup
	sr := NewServiceRegistry(nil, nil, nil, nil, nil, nil, clock.New(), zerolog.Nop())
	log := []string{}
	sr.RegisterService("first", &fakeService{name: "first", log: &log})
	sr.RegisterService("second", &fakeService{name: "second", startErr: assert.AnError, log: &log})

	// Execute
	err := sr.StartServices()

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"start:first", "stop:first"}, log)
}

// TestServiceRegistry_DuplicateRegistration tests that a name collision
// keeps the first registration.
func TestServiceRegistry_DuplicateRegistration(t *testing.T) {
	// Setup
	sr := NewServiceRegistry(nil, nil, nil, nil, nil, nil, clock.New(), zerolog.Nop())
	log := []string{}
	sr.RegisterService("only", &fakeService{name: "one", log: &log})
	sr.RegisterService("only", &fakeService{name: "two", log: &log})

	// Execute
	err := sr.StartServices()
	assert.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"start:one"}, log)
}
