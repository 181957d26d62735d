package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/models"
)

const baseMs = int64(1766600000000)

func markerEvent(kind string, atMs int64) models.Event {
	return models.Event{Kind: kind, Payload: map[string]any{"time": float64(atMs)}}
}

// TestSegment_SleepThenWake tests the basic sleep-then-wake sequence: one
// closed sleep interval and an ongoing awake interval anchored to now.
func TestSegment_SleepThenWake(t *testing.T) {
	// Setup
	evs := []models.Event{
		markerEvent("sleep", baseMs),
		markerEvent("wake", baseMs+3600_000),
	}
	now := time.UnixMilli(baseMs + 5400_000)

	// Execute
	report := Segment(evs, now)

	// Assert
	assert.Len(t, report.Intervals, 2)

	closed := report.Intervals[0]
	assert.Equal(t, constants.IntervalSleep, closed.State)
	assert.Equal(t, baseMs, closed.Start.UnixMilli())
	assert.Equal(t, baseMs+3600_000, closed.End.UnixMilli())
	assert.Equal(t, 1.00, closed.DurationHours)
	assert.False(t, closed.Ongoing)

	ongoing := report.Intervals[1]
	assert.Equal(t, constants.IntervalAwake, ongoing.State)
	assert.True(t, ongoing.Ongoing)
	assert.True(t, ongoing.End.Equal(now))
	assert.Equal(t, 0.50, ongoing.DurationHours)

	assert.Equal(t, 1.00, report.TotalSleepHours)
	assert.Equal(t, 0.50, report.TotalAwakeHours)
}

// TestSegment_UnorderedInput tests that ordering comes from normalized
// instants, not delivery order.
func TestSegment_UnorderedInput(t *testing.T) {
	evs := []models.Event{
		markerEvent("wake", baseMs+3600_000),
		markerEvent("sleep", baseMs),
	}
	now := time.UnixMilli(baseMs + 5400_000)

	report := Segment(evs, now)

	assert.Len(t, report.Intervals, 2)
	assert.Equal(t, constants.IntervalSleep, report.Intervals[0].State)
	assert.Equal(t, 1.00, report.TotalSleepHours)
}

// TestSegment_DuplicateMarkersAbsorbed tests that consecutive identical
// markers never split an interval.
func TestSegment_DuplicateMarkersAbsorbed(t *testing.T) {
	evs := []models.Event{
		markerEvent("sleep", baseMs),
		markerEvent("sleep", baseMs+600_000),
		markerEvent("sleep", baseMs+1200_000),
		markerEvent("wake", baseMs+3600_000),
	}
	now := time.UnixMilli(baseMs + 7200_000)

	report := Segment(evs, now)

	assert.Len(t, report.Intervals, 2)
	assert.Equal(t, baseMs, report.Intervals[0].Start.UnixMilli())
	assert.Equal(t, 1.00, report.Intervals[0].DurationHours)
}

// TestSegment_NonMarkersIgnored tests that step and temperature events do
// not affect segmentation.
func TestSegment_NonMarkersIgnored(t *testing.T) {
	evs := []models.Event{
		markerEvent("sleep", baseMs),
		{Kind: "steps_update", Payload: map[string]any{"steps": float64(4000), "time": float64(baseMs + 600_000)}},
		{Kind: "temperature_update", Payload: map[string]any{"temperature": 36.8, "time": float64(baseMs + 900_000)}},
		markerEvent("wake", baseMs+3600_000),
	}
	now := time.UnixMilli(baseMs + 5400_000)

	report := Segment(evs, now)

	assert.Len(t, report.Intervals, 2)
	assert.Equal(t, 1.00, report.TotalSleepHours)
}

// TestSegment_NoMarkers tests that a log with no sleep/wake signal yields
// zero intervals and zero totals.
func TestSegment_NoMarkers(t *testing.T) {
	evs := []models.Event{
		{Kind: "steps_update", Payload: map[string]any{"steps": float64(100)}},
	}

	report := Segment(evs, time.UnixMilli(baseMs))

	assert.Empty(t, report.Intervals)
	assert.Zero(t, report.TotalSleepHours)
	assert.Zero(t, report.TotalAwakeHours)
}

// TestSegment_FirstMarkerAwake tests that an initial awake marker still
// opens an interval even though the walk starts in the awake state.
func TestSegment_FirstMarkerAwake(t *testing.T) {
	evs := []models.Event{markerEvent("wake", baseMs)}
	now := time.UnixMilli(baseMs + 1800_000)

	report := Segment(evs, now)

	assert.Len(t, report.Intervals, 1)
	assert.Equal(t, constants.IntervalAwake, report.Intervals[0].State)
	assert.True(t, report.Intervals[0].Ongoing)
	assert.Equal(t, 0.50, report.TotalAwakeHours)
	assert.Zero(t, report.TotalSleepHours)
}

// TestSegment_TotalsMatchElapsed tests that sleep plus awake hours cover
// the span from the first marker to now within rounding.
func TestSegment_TotalsMatchElapsed(t *testing.T) {
	evs := []models.Event{
		markerEvent("sleep", baseMs),
		markerEvent("wake", baseMs+8_100_000),
		markerEvent("sleep", baseMs+12_000_000),
	}
	now := time.UnixMilli(baseMs + 30_000_000)

	report := Segment(evs, now)

	elapsed := now.Sub(time.UnixMilli(baseMs)).Hours()
	assert.InDelta(t, elapsed, report.TotalSleepHours+report.TotalAwakeHours, 0.011)
}

// TestSegment_MalformedTimestampStillCounts tests that a marker with no
// recognizable timestamp lands at now and participates without an error.
func TestSegment_MalformedTimestampStillCounts(t *testing.T) {
	evs := []models.Event{
		markerEvent("sleep", baseMs),
		{Kind: "wake"},
	}
	now := time.UnixMilli(baseMs + 3600_000)

	report := Segment(evs, now)

	assert.Len(t, report.Intervals, 2)
	assert.Equal(t, 1.00, report.TotalSleepHours)
	assert.Zero(t, report.TotalAwakeHours)
}
