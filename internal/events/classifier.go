package events

import (
	"strings"

	"github.com/wristcare/monitor-agent/internal/constants"
	"github.com/wristcare/monitor-agent/internal/models"
)

// Signal is the classified reading of one event: an optional sleep/wake
// marker plus independent incident flags. Events carrying neither (step
// counts, temperature samples, cleared-alert notes) produce the zero Signal
// and pass through segmentation and tallying untouched.
type Signal struct {
	Marker  constants.IntervalState
	Fall    bool
	Seizure bool
	SOS     bool
}

// Classify reads an event's kind label and payload flags. The explicit
// sleep_state field outranks label matching: transition events are labelled
// "sleep_state_change" regardless of direction, so only the field tells a
// wake apart from a sleep.
func Classify(ev models.Event) Signal {
	kind := strings.ToLower(ev.Kind)
	sig := Signal{
		Fall:    flagActive(ev, "fall", kind),
		Seizure: flagActive(ev, "seizure", kind),
		SOS:     flagActive(ev, "sos", kind),
	}
	if v, ok := numField(ev.Payload, "sleep_state"); ok {
		if v != 0 {
			sig.Marker = constants.IntervalSleep
		} else {
			sig.Marker = constants.IntervalAwake
		}
		return sig
	}
	switch {
	case strings.Contains(kind, "sleep"):
		sig.Marker = constants.IntervalSleep
	case strings.Contains(kind, "wake"):
		sig.Marker = constants.IntervalAwake
	}
	return sig
}

// flagActive reports one incident category: a truthy payload field or a kind
// label naming the category both count, independently of each other.
func flagActive(ev models.Event, name, kind string) bool {
	if v, ok := numField(ev.Payload, name); ok && v != 0 {
		return true
	}
	return strings.Contains(kind, name)
}
