package scheduling

import (
	"slices"
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// tickContext is the read-only snapshot a single scheduling tick runs
// against. Built once per (display, instant), shared by every candidate.
type tickContext struct {
	instant      time.Time
	display      model.Display
	prayers      model.PrayerDay
	prayerDataOK bool
	ledger       model.FrequencyLedger
}

// eligible runs the full rule chain for one candidate. The returned reason
// names the first failing rule; it feeds debug logs, nothing else.
func eligible(c candidate, tc tickContext) (bool, string) {
	a := c.assignment

	if !a.IsActive {
		return false, "assignment inactive"
	}
	if c.content.Status != model.ContentStatusActive {
		return false, "content not active"
	}

	local := tc.instant.In(a.Location())
	if local.Before(a.StartDate) || local.After(a.EndDate) {
		return false, "outside date range"
	}

	if len(a.Rules.DaysOfWeek) > 0 && !slices.Contains(a.Rules.DaysOfWeek, local.Weekday()) {
		return false, "weekday not allowed"
	}

	if !withinTimeOfDay(local, a.Rules.StartTime, a.Rules.EndTime) {
		return false, "outside time-of-day window"
	}

	if a.Rules.AvoidPrayerTimes {
		// Fail closed: no trustworthy prayer data means avoidance-declaring
		// assignments sit out this tick rather than risk showing during
		// prayer. Assignments without the flag are unaffected.
		if !tc.prayerDataOK {
			return false, "prayer schedule unavailable"
		}
		if tc.prayers.Covers(tc.instant, a.Rules.PrayerOffsetMinutes) {
			return false, "within prayer window"
		}
	}

	if tc.ledger.Counts[a.ID] >= a.Rules.MaxDisplaysPerHour {
		return false, "hourly frequency cap reached"
	}

	if last, ok := tc.ledger.LastShown[a.ID]; ok {
		if tc.instant.Sub(last) < time.Duration(a.Rules.MinIntervalMinutes)*time.Minute {
			return false, "minimum interval not elapsed"
		}
	}

	if !targetingMatches(a.Targeting, tc.display) {
		return false, "targeting mismatch"
	}

	if a.Rules.RequiresSponsorshipActive {
		if c.sponsorship == nil || !c.sponsorship.ActiveAt(tc.instant) {
			return false, "sponsorship not active"
		}
	}

	return true, ""
}

// withinTimeOfDay checks an optional HH:MM window. A window whose start is
// after its end wraps across midnight (e.g. 22:00-05:00).
func withinTimeOfDay(local time.Time, start, end string) bool {
	if start == "" && end == "" {
		return true
	}
	now := local.Format("15:04")
	switch {
	case start == "":
		return now <= end
	case end == "":
		return now >= start
	case start <= end:
		return now >= start && now <= end
	default: // wraps midnight
		return now >= start || now <= end
	}
}

// targetingMatches applies the optional matchers against the display's
// declared attributes. A matcher with no values matches everything; a tag
// matcher passes when any declared occasion is among the display's tags.
func targetingMatches(t model.Targeting, d model.Display) bool {
	if len(t.Languages) > 0 && !slices.Contains(t.Languages, d.Language) {
		return false
	}
	if len(t.Zones) > 0 && !slices.Contains(t.Zones, d.Zone) {
		return false
	}
	if len(t.Occasions) > 0 {
		any := false
		for _, occ := range t.Occasions {
			if slices.Contains([]string(d.Tags), occ) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}
