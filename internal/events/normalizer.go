package events

import (
	"strings"
	"time"

	"github.com/wristcare/monitor-agent/internal/models"
)

// epochMillisFloor rejects second-granularity numbers that would otherwise
// be misread as milliseconds and land decades in the past.
const epochMillisFloor = 1e11

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// EventTime resolves the canonical instant of an event record. Timestamp
// conventions vary across firmware revisions, so candidates are tried in a
// fixed order and the first parseable one wins:
//
//  1. the top-level ts string,
//  2. a payload timestamp string (ts, then timestamp),
//  3. a payload epoch-millisecond number (ts, timestamp, time),
//  4. the generic timestamp field,
//  5. the generic time field.
//
// A malformed record never fails normalization: the fallback is now, which
// trades some drift for never dropping an event.
func EventTime(ev models.Event, now time.Time) time.Time {
	if t, ok := parseStamp(ev.TS); ok {
		return t
	}
	for _, key := range []string{"ts", "timestamp"} {
		if s, ok := stringField(ev.Payload, key); ok {
			if t, ok := parseStamp(s); ok {
				return t
			}
		}
	}
	for _, key := range []string{"ts", "timestamp", "time"} {
		if n, ok := numField(ev.Payload, key); ok && n > epochMillisFloor {
			return time.UnixMilli(int64(n))
		}
	}
	if t, ok := parseAny(ev.Timestamp); ok {
		return t
	}
	if t, ok := parseAny(ev.Time); ok {
		return t
	}
	return now
}

// parseStamp accepts RFC3339 stamps and the backend's naive
// "2006-01-02 15:04:05" form, rewriting the space separator to T first.
// Naive stamps are taken as local time, matching how the backend writes them.
func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i >= 0 && !strings.ContainsRune(s, 'T') {
		s = s[:i] + "T" + s[i+1:]
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAny(v any) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	if s, ok := v.(string); ok {
		if t, ok := parseStamp(s); ok {
			return t, true
		}
	}
	if n, ok := numValue(v); ok && n > epochMillisFloor {
		return time.UnixMilli(int64(n)), true
	}
	return time.Time{}, false
}
