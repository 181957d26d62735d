package incidents

import (
	"time"

	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/events"
	"github.com/wristcare/monitor-agent/internal/models"
)

// Tally counts a device's fall and seizure events over rolling day, week
// and month windows ending at now. The windows are cumulative, so a
// same-day incident also counts toward the week and month. Results are
// recomputed in full on every call; nothing persists between queries, which
// keeps the counts correct under duplicate or late-arriving events.
func Tally(evs []models.Event, now time.Time) models.IncidentTally {
	var tally models.IncidentTally
	for _, ev := range evs {
		sig := events.Classify(ev)
		if !sig.Fall && !sig.Seizure {
			continue
		}
		age := now.Sub(events.EventTime(ev, now))
		if sig.Fall {
			bump(&tally.Fall, age)
		}
		if sig.Seizure {
			bump(&tally.Seizure, age)
		}
	}
	return tally
}

func bump(w *models.WindowCounts, age time.Duration) {
	if age <= constants.WindowDay {
		w.Day++
	}
	if age <= constants.WindowWeek {
		w.Week++
	}
	if age <= constants.WindowMonth {
		w.Month++
	}
}
