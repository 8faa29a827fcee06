package model

import "time"

// Impression is one append-only record of an assignment having been shown.
// (AssignmentID, ShownAt) is the idempotency key: display clients retry
// reports after network failures and duplicates must collapse.
type Impression struct {
	ID             int64     `db:"id"              json:"id"`
	AssignmentID   string    `db:"assignment_id"   json:"assignment_id"`
	DisplayID      string    `db:"display_id"      json:"display_id"`
	ShownAt        time.Time `db:"shown_at"        json:"shown_at"`
	ActualDuration int       `db:"actual_duration" json:"actual_duration"` // seconds
	ReportedAt     time.Time `db:"reported_at"     json:"reported_at"`
}

// FrequencyLedger is the trailing-window projection over the impressions log
// that the eligibility filter reads. Derived per tick, never mutated.
type FrequencyLedger struct {
	Counts    map[string]int       // impressions per assignment in the window
	LastShown map[string]time.Time // most recent impression per assignment
}

// EmptyLedger is what a tick uses when the analytics store has nothing for
// the display yet.
func EmptyLedger() FrequencyLedger {
	return FrequencyLedger{
		Counts:    map[string]int{},
		LastShown: map[string]time.Time{},
	}
}

// ScheduleEntry is one slot of a computed playback queue. Ephemeral: rebuilt
// every tick, never persisted.
type ScheduleEntry struct {
	AssignmentID       string        `json:"assignment_id"`
	ContentID          string        `json:"content_id"`
	ContentType        ContentType   `json:"content_type"`
	URL                string        `json:"url"`
	PlannedDisplayTime time.Time     `json:"planned_display_time"`
	Duration           int           `json:"duration"` // seconds
	EffectivePriority  float64       `json:"effective_priority"`
	Layout             DisplayLayout `json:"layout"`
}
