package model

import "time"

// PrayerWindow is one prayer's blocked interval on a given day, before any
// per-assignment offset is applied.
type PrayerWindow struct {
	Name  string    `json:"name"` // "fajr", "dhuhr", "asr", "maghrib", "isha"
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PrayerDay is one zone-day of prayer windows, as cached from the JAKIM feed.
type PrayerDay struct {
	Zone      string         `json:"zone"`
	Date      string         `json:"date"` // YYYY-MM-DD
	Windows   []PrayerWindow `json:"windows"`
	Source    string         `json:"source"` // "jakim" or "cache"
	FetchedAt time.Time      `json:"fetched_at"`
}

// Covers reports whether the instant falls inside any window once padded by
// offset minutes on both sides.
func (d PrayerDay) Covers(instant time.Time, offsetMinutes int) bool {
	pad := time.Duration(offsetMinutes) * time.Minute
	for _, w := range d.Windows {
		if !instant.Before(w.Start.Add(-pad)) && !instant.After(w.End.Add(pad)) {
			return true
		}
	}
	return false
}
