package model

import "time"

// SponsorshipBoost is the scheduling-relevant slice of a sponsorship record.
// Read-only to the scheduler.
type SponsorshipBoost struct {
	ID                 string    `db:"id"                   json:"id"`
	SponsorName        string    `db:"sponsor_name"         json:"sponsor_name"`
	Type               string    `db:"type"                 json:"type"`
	Amount             float64   `db:"amount"               json:"amount"` // MYR
	PriorityMultiplier float64   `db:"priority_multiplier"  json:"priority_multiplier"`  // 1.0 - 5.0
	FrequencyPerHour   int       `db:"frequency_per_hour"   json:"frequency_per_hour"`   // 1 - 10
	ActiveFrom         time.Time `db:"active_from"          json:"active_from"`
	ActiveUntil        time.Time `db:"active_until"         json:"active_until"`
	CreatedAt          time.Time `db:"created_at"           json:"created_at"`
}

// ActiveAt reports whether the sponsorship window covers the instant.
func (s SponsorshipBoost) ActiveAt(instant time.Time) bool {
	return !instant.Before(s.ActiveFrom) && !instant.After(s.ActiveUntil)
}
