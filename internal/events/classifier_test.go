package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/models"
)

// TestClassify_IncidentSignalsAgree tests that flag-only, label-only and
// combined records classify identically.
func TestClassify_IncidentSignalsAgree(t *testing.T) {
	flagOnly := models.Event{Kind: "status", Payload: map[string]any{"fall": float64(1)}}
	labelOnly := models.Event{Kind: "fall"}
	both := models.Event{Kind: "fall", Payload: map[string]any{"fall": float64(1)}}

	for _, ev := range []models.Event{flagOnly, labelOnly, both} {
		sig := Classify(ev)
		assert.True(t, sig.Fall)
		assert.False(t, sig.Seizure)
	}
}

// TestClassify_IndependentCategories tests that fall and seizure are not
// mutually exclusive.
func TestClassify_IndependentCategories(t *testing.T) {
	ev := models.Event{
		Kind:    "status",
		Payload: map[string]any{"fall": float64(1), "seizure": float64(1)},
	}

	sig := Classify(ev)

	assert.True(t, sig.Fall)
	assert.True(t, sig.Seizure)
	assert.False(t, sig.SOS)
}

// TestClassify_SleepStateField tests that the explicit sleep_state field
// decides the marker direction even on a "sleep_state_change" label.
func TestClassify_SleepStateField(t *testing.T) {
	asleep := models.Event{Kind: "sleep_state_change", Payload: map[string]any{"sleep_state": float64(1)}}
	awake := models.Event{Kind: "sleep_state_change", Payload: map[string]any{"sleep_state": float64(0)}}

	assert.Equal(t, constants.IntervalSleep, Classify(asleep).Marker)
	assert.Equal(t, constants.IntervalAwake, Classify(awake).Marker)
}

// TestClassify_KindLabels tests label-based markers when no sleep_state
// field is present.
func TestClassify_KindLabels(t *testing.T) {
	assert.Equal(t, constants.IntervalSleep, Classify(models.Event{Kind: "Sleep"}).Marker)
	assert.Equal(t, constants.IntervalAwake, Classify(models.Event{Kind: "wake"}).Marker)
	assert.Equal(t, constants.IntervalAwake, Classify(models.Event{Kind: "awake"}).Marker)
}

// TestClassify_CoercedFlagValues tests the loose payload encodings firmware
// has shipped for the same flags.
func TestClassify_CoercedFlagValues(t *testing.T) {
	asString := models.Event{Kind: "status", Payload: map[string]any{"sos": "1"}}
	asBool := models.Event{Kind: "status", Payload: map[string]any{"sos": true}}
	asZero := models.Event{Kind: "status", Payload: map[string]any{"sos": float64(0)}}

	assert.True(t, Classify(asString).SOS)
	assert.True(t, Classify(asBool).SOS)
	assert.False(t, Classify(asZero).SOS)
}

// TestClassify_Passthrough tests that unrecognized events yield the zero
// Signal and never an error.
func TestClassify_Passthrough(t *testing.T) {
	ev := models.Event{Kind: "temperature_update", Payload: map[string]any{"temperature": 36.6}}

	sig := Classify(ev)

	assert.Equal(t, Signal{}, sig)
}
