package events

import "strconv"

// numValue coerces the loosely typed values found in event payloads into a
// float64. Firmware revisions have shipped numbers, numeric strings and
// booleans for the same fields.
func numValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func numField(payload map[string]any, key string) (float64, bool) {
	if payload == nil {
		return 0, false
	}
	v, ok := payload[key]
	if !ok {
		return 0, false
	}
	return numValue(v)
}

func stringField(payload map[string]any, key string) (string, bool) {
	if payload == nil {
		return "", false
	}
	s, ok := payload[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
