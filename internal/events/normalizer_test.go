package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wristcare/monitor-agent/internal/models"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

// TestEventTime_TopLevelTS tests that the top-level ts string wins over
// every other candidate field.
func TestEventTime_TopLevelTS(t *testing.T) {
	// Setup
	ev := models.Event{
		Kind:      "fall",
		TS:        "2026-08-25T09:30:00Z",
		Timestamp: float64(1700000000000),
		Payload:   map[string]any{"ts": "2026-08-24T01:00:00Z"},
	}

	// Execute
	got := EventTime(ev, testNow)

	// Assert
	assert.Equal(t, time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC).UnixMilli(), got.UnixMilli())
}

// TestEventTime_SpaceSeparatedTS tests the backend's naive space-separated
// form, which parses as local time.
func TestEventTime_SpaceSeparatedTS(t *testing.T) {
	ev := models.Event{TS: "2026-08-25 09:30:00"}

	got := EventTime(ev, testNow)

	want := time.Date(2026, 8, 25, 9, 30, 0, 0, time.Local)
	assert.Equal(t, want.UnixMilli(), got.UnixMilli())
}

// TestEventTime_PayloadString tests the nested payload timestamp string branch.
func TestEventTime_PayloadString(t *testing.T) {
	ev := models.Event{Payload: map[string]any{"timestamp": "2026-08-20T08:00:00Z"}}

	got := EventTime(ev, testNow)

	assert.Equal(t, time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC).UnixMilli(), got.UnixMilli())
}

// TestEventTime_PayloadEpochMillis tests the nested epoch-millisecond branch.
func TestEventTime_PayloadEpochMillis(t *testing.T) {
	ev := models.Event{Payload: map[string]any{"time": float64(1766600000000)}}

	got := EventTime(ev, testNow)

	assert.Equal(t, int64(1766600000000), got.UnixMilli())
}

// TestEventTime_RejectsEpochSeconds tests that second-granularity numbers
// are not misread as milliseconds and the record falls back to now.
func TestEventTime_RejectsEpochSeconds(t *testing.T) {
	ev := models.Event{Payload: map[string]any{"time": float64(1766600000)}}

	got := EventTime(ev, testNow)

	assert.Equal(t, testNow.UnixMilli(), got.UnixMilli())
}

// TestEventTime_GenericFields tests the generic timestamp and time branches.
func TestEventTime_GenericFields(t *testing.T) {
	byString := models.Event{Timestamp: "2026-08-22 23:15:00"}
	byNumber := models.Event{Time: float64(1766600000000)}

	wantLocal := time.Date(2026, 8, 22, 23, 15, 0, 0, time.Local)
	assert.Equal(t, wantLocal.UnixMilli(), EventTime(byString, testNow).UnixMilli())
	assert.Equal(t, int64(1766600000000), EventTime(byNumber, testNow).UnixMilli())
}

// TestEventTime_NumericStringPayload tests that a numeric string payload ts
// still resolves through the epoch branch.
func TestEventTime_NumericStringPayload(t *testing.T) {
	ev := models.Event{Payload: map[string]any{"ts": "1766600000000"}}

	got := EventTime(ev, testNow)

	assert.Equal(t, int64(1766600000000), got.UnixMilli())
}

// TestEventTime_MalformedFallsBackToNow tests that a record with no
// recognizable timestamp field normalizes to the evaluation instant
// without an error.
func TestEventTime_MalformedFallsBackToNow(t *testing.T) {
	cases := []models.Event{
		{},
		{TS: "not-a-date"},
		{Kind: "steps", Payload: map[string]any{"steps": float64(4200)}},
		{Timestamp: map[string]any{"nested": true}},
		{Time: true},
	}

	for _, ev := range cases {
		got := EventTime(ev, testNow)
		assert.Equal(t, testNow.UnixMilli(), got.UnixMilli())
	}
}
