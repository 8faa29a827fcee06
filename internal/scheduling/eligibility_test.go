package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/papan-digital/minbar/internal/model"
)

// 2026-03-09 is a Monday; 10:00 in Kuala Lumpur.
var tickInstant = time.Date(2026, 3, 9, 10, 0, 0, 0, kualaLumpur())

func kualaLumpur() *time.Location {
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		panic(err)
	}
	return loc
}

func eligibleCandidate() candidate {
	return candidate{
		assignment: model.Assignment{
			ID:        "assign-1",
			ContentID: "content-1",
			DisplayID: "display-1",
			Timezone:  "Asia/Kuala_Lumpur",
			StartDate: tickInstant.Add(-24 * time.Hour),
			EndDate:   tickInstant.Add(24 * time.Hour),
			IsActive:  true,
			Rules: model.SchedulingRules{
				MaxDisplaysPerHour: 6,
				MinIntervalMinutes: 10,
			},
		},
		content: model.ContentItem{
			ID:     "content-1",
			Status: model.ContentStatusActive,
		},
	}
}

func baseTick() tickContext {
	return tickContext{
		instant: tickInstant,
		display: model.Display{
			ID:         "display-1",
			PrayerZone: "WLY01",
			Language:   "ms",
			Zone:       "main-hall",
		},
		ledger: model.EmptyLedger(),
	}
}

func TestEligible_HappyPath(t *testing.T) {
	ok, reason := eligible(eligibleCandidate(), baseTick())

	assert.True(t, ok, reason)
}

func TestEligible_InactiveAssignmentExcluded(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.IsActive = false

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "assignment inactive", reason)
}

func TestEligible_NonActiveContentExcluded(t *testing.T) {
	c := eligibleCandidate()
	c.content.Status = model.ContentStatusPending

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "content not active", reason)
}

func TestEligible_OutsideDateRange(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.StartDate = tickInstant.Add(time.Hour)

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "outside date range", reason)
}

func TestEligible_FridayOnlyOnMonday(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.DaysOfWeek = []time.Weekday{time.Friday}

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "weekday not allowed", reason)

	// Same rule four days later passes.
	tc := baseTick()
	tc.instant = tickInstant.Add(4 * 24 * time.Hour)
	c.assignment.EndDate = tc.instant.Add(24 * time.Hour)
	ok, _ = eligible(c, tc)
	assert.True(t, ok)
}

func TestEligible_TimeOfDayWindow(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.StartTime = "12:00"
	c.assignment.Rules.EndTime = "14:00"

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "outside time-of-day window", reason)
}

func TestWithinTimeOfDay_WrapsMidnight(t *testing.T) {
	lateNight := time.Date(2026, 3, 9, 23, 30, 0, 0, kualaLumpur())
	earlyMorning := time.Date(2026, 3, 9, 4, 0, 0, 0, kualaLumpur())
	midday := time.Date(2026, 3, 9, 12, 0, 0, 0, kualaLumpur())

	assert.True(t, withinTimeOfDay(lateNight, "22:00", "05:00"))
	assert.True(t, withinTimeOfDay(earlyMorning, "22:00", "05:00"))
	assert.False(t, withinTimeOfDay(midday, "22:00", "05:00"))
}

func TestWithinTimeOfDay_OpenEnds(t *testing.T) {
	morning := time.Date(2026, 3, 9, 8, 0, 0, 0, kualaLumpur())

	assert.True(t, withinTimeOfDay(morning, "", ""))
	assert.True(t, withinTimeOfDay(morning, "07:00", ""))
	assert.False(t, withinTimeOfDay(morning, "09:00", ""))
	assert.True(t, withinTimeOfDay(morning, "", "09:00"))
	assert.False(t, withinTimeOfDay(morning, "", "07:00"))
}

func TestEligible_PrayerAvoidanceFailsClosed(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.AvoidPrayerTimes = true

	tc := baseTick()
	tc.prayerDataOK = false

	ok, reason := eligible(c, tc)

	assert.False(t, ok)
	assert.Equal(t, "prayer schedule unavailable", reason)
}

func TestEligible_WithinPrayerWindow(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.AvoidPrayerTimes = true
	c.assignment.Rules.PrayerOffsetMinutes = 5

	tc := baseTick()
	tc.prayerDataOK = true
	tc.prayers = model.PrayerDay{
		Zone: "WLY01",
		Windows: []model.PrayerWindow{
			// window ends 09:58, the 5 minute offset still covers 10:00
			{Name: "dhuha", Start: tickInstant.Add(-32 * time.Minute), End: tickInstant.Add(-2 * time.Minute)},
		},
	}

	ok, reason := eligible(c, tc)

	assert.False(t, ok)
	assert.Equal(t, "within prayer window", reason)
}

func TestEligible_OutsidePrayerWindowPasses(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.AvoidPrayerTimes = true

	tc := baseTick()
	tc.prayerDataOK = true
	tc.prayers = model.PrayerDay{
		Windows: []model.PrayerWindow{
			{Start: tickInstant.Add(2 * time.Hour), End: tickInstant.Add(150 * time.Minute)},
		},
	}

	ok, _ := eligible(c, tc)

	assert.True(t, ok)
}

func TestEligible_HourlyCapReached(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.MaxDisplaysPerHour = 3

	tc := baseTick()
	tc.ledger.Counts[c.assignment.ID] = 3

	ok, reason := eligible(c, tc)

	assert.False(t, ok)
	assert.Equal(t, "hourly frequency cap reached", reason)

	// one below the cap still passes
	tc.ledger.Counts[c.assignment.ID] = 2
	ok, _ = eligible(c, tc)
	assert.True(t, ok)
}

func TestEligible_MinIntervalNotElapsed(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.MinIntervalMinutes = 30

	tc := baseTick()
	tc.ledger.LastShown[c.assignment.ID] = tickInstant.Add(-10 * time.Minute)

	ok, reason := eligible(c, tc)

	assert.False(t, ok)
	assert.Equal(t, "minimum interval not elapsed", reason)

	tc.ledger.LastShown[c.assignment.ID] = tickInstant.Add(-31 * time.Minute)
	ok, _ = eligible(c, tc)
	assert.True(t, ok)
}

func TestEligible_TargetingMismatch(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Targeting.Languages = []string{"en"}

	ok, reason := eligible(c, baseTick())

	assert.False(t, ok)
	assert.Equal(t, "targeting mismatch", reason)
}

func TestTargetingMatches(t *testing.T) {
	display := model.Display{Language: "ms", Zone: "main-hall", Tags: []string{"ramadan", "friday"}}

	assert.True(t, targetingMatches(model.Targeting{}, display))
	assert.True(t, targetingMatches(model.Targeting{Languages: []string{"ms", "en"}}, display))
	assert.False(t, targetingMatches(model.Targeting{Zones: []string{"entrance"}}, display))
	assert.True(t, targetingMatches(model.Targeting{Occasions: []string{"eid", "ramadan"}}, display))
	assert.False(t, targetingMatches(model.Targeting{Occasions: []string{"eid"}}, display))
}

func TestEligible_RequiresActiveSponsorship(t *testing.T) {
	c := eligibleCandidate()
	c.assignment.Rules.RequiresSponsorshipActive = true

	ok, reason := eligible(c, baseTick())
	assert.False(t, ok)
	assert.Equal(t, "sponsorship not active", reason)

	c.sponsorship = &model.SponsorshipBoost{
		ActiveFrom:  tickInstant.Add(-time.Hour),
		ActiveUntil: tickInstant.Add(-time.Minute),
	}
	ok, reason = eligible(c, baseTick())
	assert.False(t, ok)
	assert.Equal(t, "sponsorship not active", reason)

	c.sponsorship.ActiveUntil = tickInstant.Add(time.Hour)
	ok, _ = eligible(c, baseTick())
	assert.True(t, ok)
}
