package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PriorityTier is an assignment's base priority band.
type PriorityTier string

const (
	PriorityLow      PriorityTier = "low"
	PriorityNormal   PriorityTier = "normal"
	PriorityHigh     PriorityTier = "high"
	PriorityUrgent   PriorityTier = "urgent"
	PriorityCritical PriorityTier = "critical"
)

// PriorityTiers lists the tiers in ascending order of weight.
var PriorityTiers = []PriorityTier{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
	PriorityUrgent,
	PriorityCritical,
}

func (p PriorityTier) Valid() bool {
	for _, known := range PriorityTiers {
		if p == known {
			return true
		}
	}
	return false
}

// SchedulingRules constrain when an assignment may appear on its display.
// Zero values mean "no constraint" except the two frequency fields, which are
// always enforced.
type SchedulingRules struct {
	DaysOfWeek                []time.Weekday `json:"days_of_week,omitempty"` // nil = every day
	StartTime                 string         `json:"start_time,omitempty"`   // "HH:MM", local to the assignment timezone
	EndTime                   string         `json:"end_time,omitempty"`
	AvoidPrayerTimes          bool           `json:"avoid_prayer_times"`
	PrayerOffsetMinutes       int            `json:"prayer_offset_minutes"`
	MaxDisplaysPerHour        int            `json:"max_displays_per_hour"`
	MinIntervalMinutes        int            `json:"min_interval_minutes"`
	RequiresSponsorshipActive bool           `json:"requires_sponsorship_active"`
}

// Targeting restricts which displays an assignment applies to. An empty
// matcher matches every display.
type Targeting struct {
	Languages []string `json:"languages,omitempty"`
	Zones     []string `json:"zones,omitempty"`
	Occasions []string `json:"occasions,omitempty"`
}

// DisplayLayout positions the content on screen. Percent coordinates.
type DisplayLayout struct {
	Mode    string `json:"mode"` // fullscreen, overlay, banner, corner, split, carousel
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	ZIndex  int    `json:"z_index"`
	Opacity int    `json:"opacity"`
}

// FullscreenLayout is the default layout applied when a request carries none.
var FullscreenLayout = DisplayLayout{
	Mode: "fullscreen", X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1, Opacity: 100,
}

// Assignment binds one content item to one display with scheduling rules,
// targeting and an optional sponsorship reference. The bookkeeping fields
// (LastDisplayed, DisplayCount, ErrorCount) are advisory; the frequency
// ledger derived from the impressions log is authoritative for caps.
type Assignment struct {
	ID            string          `db:"id"             json:"id"`
	ContentID     string          `db:"content_id"     json:"content_id"`
	DisplayID     string          `db:"display_id"     json:"display_id"`
	Title         string          `db:"title"          json:"title"`
	BasePriority  PriorityTier    `db:"base_priority"  json:"base_priority"`
	StartDate     time.Time       `db:"start_date"     json:"start_date"`
	EndDate       time.Time       `db:"end_date"       json:"end_date"`
	Timezone      string          `db:"timezone"       json:"timezone"`
	Rules         SchedulingRules `db:"rules"          json:"rules"`
	Targeting     Targeting       `db:"targeting"      json:"targeting"`
	Layout        DisplayLayout   `db:"layout"         json:"layout"`
	SponsorshipID *string         `db:"sponsorship_id" json:"sponsorship_id,omitempty"`
	IsActive      bool            `db:"is_active"      json:"is_active"`
	LastDisplayed *time.Time      `db:"last_displayed" json:"last_displayed,omitempty"`
	DisplayCount  int             `db:"display_count"  json:"display_count"`
	ErrorCount    int             `db:"error_count"    json:"error_count"`
	CreatedBy     string          `db:"created_by"     json:"created_by"`
	CreatedAt     time.Time       `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"     json:"updated_at"`
}

// Location resolves the assignment's declared timezone, falling back to UTC
// when the name is unknown so a bad row can never break a whole tick.
func (a Assignment) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Value / Scan let sqlx read and write the rule structs as JSONB columns.

func (r SchedulingRules) Value() (driver.Value, error) { return json.Marshal(r) }

func (r *SchedulingRules) Scan(src any) error { return scanJSON(src, r) }

func (t Targeting) Value() (driver.Value, error) { return json.Marshal(t) }

func (t *Targeting) Scan(src any) error { return scanJSON(src, t) }

func (l DisplayLayout) Value() (driver.Value, error) { return json.Marshal(l) }

func (l *DisplayLayout) Scan(src any) error { return scanJSON(src, l) }

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
