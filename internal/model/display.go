package model

import (
	"time"

	"github.com/lib/pq"
)

// Display is a physical signage device plus the configuration the scheduler
// needs: carousel pacing, rotation capacity and the attributes that targeting
// matchers run against.
type Display struct {
	ID                 string         `db:"id"                   json:"id"`
	Name               string         `db:"name"                 json:"name"`
	Location           *string        `db:"location"             json:"location,omitempty"`
	PrayerZone         string         `db:"prayer_zone"          json:"prayer_zone"` // JAKIM zone code, e.g. WLY01
	Language           string         `db:"language"             json:"language"`    // ISO code, e.g. "ms"
	Zone               string         `db:"zone"                 json:"zone"`        // area within the masjid
	Tags               pq.StringArray `db:"tags"                 json:"tags"`        // occasion/context tags
	CarouselInterval   int            `db:"carousel_interval"    json:"carousel_interval"`    // 5 - 300 seconds
	MaxContentItems    int            `db:"max_content_items"    json:"max_content_items"`    // 1 - 20
	AutoRefreshMinutes int            `db:"auto_refresh_minutes" json:"auto_refresh_minutes"` // 1 - 60
	RespectPriority    bool           `db:"respect_priority"     json:"respect_priority"`
	DurationDriven     bool           `db:"duration_driven"      json:"duration_driven"` // pace by content duration instead of carousel interval
	Paired             bool           `db:"paired"               json:"paired"`
	CreatedAt          time.Time      `db:"created_at"           json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"           json:"updated_at"`
}
