package sleep

import (
	"math"
	"sort"
	"time"

	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/events"
	"github.com/wristcare/monitor-agent/internal/models"
)

type marker struct {
	at    time.Time
	state constants.IntervalState
}

// Segment reconstructs alternating sleep/awake intervals from a sparse,
// unordered event log, evaluated against now.
//
// Events are ordered by normalized instant (stable on ties), then walked
// with a two-state machine: a sleep/wake marker opens a new interval only
// when it changes the current state, so duplicate and noisy markers never
// split a span. Events with no sleep/wake signal are skipped. The interval
// still open after the last marker is closed against now and flagged
// ongoing. Totals accumulate unrounded and are rounded once, so the sleep
// and awake hours add up to the span from the first marker to now.
func Segment(evs []models.Event, now time.Time) models.SleepReport {
	markers := make([]marker, 0, len(evs))
	for _, ev := range evs {
		sig := events.Classify(ev)
		if sig.Marker == "" {
			continue
		}
		markers = append(markers, marker{at: events.EventTime(ev, now), state: sig.Marker})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].at.Before(markers[j].at)
	})

	var (
		report  models.SleepReport
		current = constants.IntervalAwake
		started time.Time
		open    bool
		totals  = map[constants.IntervalState]float64{}
	)

	for _, m := range markers {
		if open && m.state == current {
			continue
		}
		if open {
			h := hoursBetween(started, m.at)
			totals[current] += h
			report.Intervals = append(report.Intervals, models.Interval{
				Start:         started,
				End:           m.at,
				State:         current,
				DurationHours: round2(h),
			})
		}
		current = m.state
		started = m.at
		open = true
	}

	if open {
		h := hoursBetween(started, now)
		totals[current] += h
		report.Intervals = append(report.Intervals, models.Interval{
			Start:         started,
			End:           now,
			State:         current,
			DurationHours: round2(h),
			Ongoing:       true,
		})
	}

	report.TotalSleepHours = round2(totals[constants.IntervalSleep])
	report.TotalAwakeHours = round2(totals[constants.IntervalAwake])
	return report
}

func hoursBetween(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
