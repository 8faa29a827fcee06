package scheduling

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/papan-digital/minbar/internal/model"
)

func validContent() model.ContentItem {
	return model.ContentItem{
		Title:    "Quran class timetable",
		Type:     model.ContentTypeImage,
		URL:      "/uploads/timetable.png",
		Duration: 15,
	}
}

func validAssignment() model.Assignment {
	return model.Assignment{
		BasePriority: model.PriorityNormal,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Timezone:     "Asia/Kuala_Lumpur",
		Rules: model.SchedulingRules{
			MaxDisplaysPerHour: 6,
			MinIntervalMinutes: 10,
		},
		Layout: model.FullscreenLayout,
	}
}

func TestValidateContent_Accepts(t *testing.T) {
	assert.NoError(t, ValidateContent(validContent()))
}

func TestValidateContent_Rejections(t *testing.T) {
	cases := map[string]func(*model.ContentItem){
		"short title":       func(c *model.ContentItem) { c.Title = "ab" },
		"long title":        func(c *model.ContentItem) { c.Title = strings.Repeat("x", 101) },
		"unknown type":      func(c *model.ContentItem) { c.Type = "gif" },
		"missing url":       func(c *model.ContentItem) { c.URL = "" },
		"zero duration":     func(c *model.ContentItem) { c.Duration = 0 },
		"marathon duration": func(c *model.ContentItem) { c.Duration = 301 },
		"negative amount":   func(c *model.ContentItem) { c.SponsorshipAmount = -1 },
	}

	for name, mutate := range cases {
		c := validContent()
		mutate(&c)
		err := ValidateContent(c)
		assert.True(t, IsKind(err, KindValidation), name)
	}
}

func TestValidateAssignment_Accepts(t *testing.T) {
	assert.NoError(t, ValidateAssignment(validAssignment()))
}

func TestValidateAssignment_Rejections(t *testing.T) {
	cases := map[string]func(*model.Assignment){
		"unknown tier":       func(a *model.Assignment) { a.BasePriority = "mega" },
		"inverted dates":     func(a *model.Assignment) { a.EndDate = a.StartDate },
		"over a year":        func(a *model.Assignment) { a.EndDate = a.StartDate.Add(366 * 24 * time.Hour) },
		"bad timezone":       func(a *model.Assignment) { a.Timezone = "Mars/Olympus" },
		"cap too high":       func(a *model.Assignment) { a.Rules.MaxDisplaysPerHour = 61 },
		"cap zero":           func(a *model.Assignment) { a.Rules.MaxDisplaysPerHour = 0 },
		"interval too long":  func(a *model.Assignment) { a.Rules.MinIntervalMinutes = 1441 },
		"interval zero":      func(a *model.Assignment) { a.Rules.MinIntervalMinutes = 0 },
		"negative offset":    func(a *model.Assignment) { a.Rules.PrayerOffsetMinutes = -5 },
		"bad weekday":        func(a *model.Assignment) { a.Rules.DaysOfWeek = []time.Weekday{8} },
		"bad time of day":    func(a *model.Assignment) { a.Rules.StartTime = "25:99" },
		"layout off screen":  func(a *model.Assignment) { a.Layout.X = 101 },
		"layout zero width":  func(a *model.Assignment) { a.Layout.Width = 0 },
		"layout too opaque":  func(a *model.Assignment) { a.Layout.Opacity = 101 },
		"layout deep zindex": func(a *model.Assignment) { a.Layout.ZIndex = -1 },
	}

	for name, mutate := range cases {
		a := validAssignment()
		mutate(&a)
		err := ValidateAssignment(a)
		assert.True(t, IsKind(err, KindValidation), name)
	}
}
