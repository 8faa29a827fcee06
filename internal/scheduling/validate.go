package scheduling

import (
	"strings"
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// Validation bounds. These mirror what the admin dashboard enforces client
// side; the scheduler re-checks them because assignments also arrive through
// the API.
const (
	minDisplayDuration = 1
	maxDisplayDuration = 300 // seconds

	minDisplaysPerHour = 1
	maxDisplaysPerHour = 60

	minIntervalMinutes = 1
	maxIntervalMinutes = 1440

	maxAssignmentDays = 365

	minTitleLen = 3
	maxTitleLen = 100
)

// ValidateContent checks a submitted content item before it enters the
// approval workflow.
func ValidateContent(item model.ContentItem) error {
	if l := len(strings.TrimSpace(item.Title)); l < minTitleLen || l > maxTitleLen {
		return validationError("title must be %d-%d characters", minTitleLen, maxTitleLen)
	}
	if !item.Type.Valid() {
		return validationError("unknown content type %q", item.Type)
	}
	if item.URL == "" {
		return validationError("url is required")
	}
	if item.Duration < minDisplayDuration || item.Duration > maxDisplayDuration {
		return validationError("duration must be %d-%d seconds", minDisplayDuration, maxDisplayDuration)
	}
	if item.SponsorshipAmount < 0 {
		return validationError("sponsorship amount cannot be negative")
	}
	return nil
}

// ValidateAssignment checks the invariants an assignment must hold before it
// is accepted into the registry.
func ValidateAssignment(a model.Assignment) error {
	if !a.BasePriority.Valid() {
		return validationError("unknown priority tier %q", a.BasePriority)
	}
	if !a.EndDate.After(a.StartDate) {
		return validationError("end date must be after start date")
	}
	if a.EndDate.Sub(a.StartDate) > maxAssignmentDays*24*time.Hour {
		return validationError("assignment duration cannot exceed %d days", maxAssignmentDays)
	}
	if _, err := time.LoadLocation(a.Timezone); err != nil {
		return validationError("unknown timezone %q", a.Timezone)
	}
	if err := validateRules(a.Rules); err != nil {
		return err
	}
	return validateLayout(a.Layout)
}

func validateRules(r model.SchedulingRules) error {
	if r.MaxDisplaysPerHour < minDisplaysPerHour || r.MaxDisplaysPerHour > maxDisplaysPerHour {
		return validationError("max displays per hour must be %d-%d", minDisplaysPerHour, maxDisplaysPerHour)
	}
	if r.MinIntervalMinutes < minIntervalMinutes || r.MinIntervalMinutes > maxIntervalMinutes {
		return validationError("min interval must be %d-%d minutes", minIntervalMinutes, maxIntervalMinutes)
	}
	if r.PrayerOffsetMinutes < 0 {
		return validationError("prayer offset cannot be negative")
	}
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return validationError("invalid weekday %d", d)
		}
	}
	for _, hhmm := range []string{r.StartTime, r.EndTime} {
		if hhmm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return validationError("time of day %q is not HH:MM", hhmm)
		}
	}
	return nil
}

func validateLayout(l model.DisplayLayout) error {
	if l.X < 0 || l.X > 100 || l.Y < 0 || l.Y > 100 {
		return validationError("layout position out of bounds")
	}
	if l.Width < 1 || l.Width > 100 || l.Height < 1 || l.Height > 100 {
		return validationError("layout size out of bounds")
	}
	if l.Opacity < 0 || l.Opacity > 100 {
		return validationError("layout opacity out of bounds")
	}
	if l.ZIndex < 0 || l.ZIndex > 100 {
		return validationError("layout z-index out of bounds")
	}
	return nil
}
