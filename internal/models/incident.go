package models

// WindowCounts holds cumulative rolling-window tallies: a same-day incident
// also counts toward the week and month windows.
type WindowCounts struct {
	Day   int `json:"day"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// IncidentTally is the per-category incident count for one device, fully
// recomputed at each query against the evaluation instant.
type IncidentTally struct {
	Fall    WindowCounts `json:"fall"`
	Seizure WindowCounts `json:"seizure"`
}
