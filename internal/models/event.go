package models

// Event represents one reported observation from a wearable. The backend
// stores events append-only and never rewrites them; every field except the
// kind label is optional and shapes vary between firmware revisions, so the
// generic timestamp fields stay untyped until normalization.
type Event struct {
	Kind      string         `json:"event,omitempty"`
	TS        string         `json:"ts,omitempty"`
	Timestamp any            `json:"timestamp,omitempty"`
	Time      any            `json:"time,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}
