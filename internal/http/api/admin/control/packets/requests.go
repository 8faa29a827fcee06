package packets

import (
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// CreateContentRequest submits new content into the approval queue. Media is
// uploaded separately as a multipart form when the URL is not external.
type CreateContentRequest struct {
	Title             string     `json:"title" binding:"required"`
	Type              string     `json:"type"  binding:"required"`
	URL               string     `json:"url"   binding:"required"`
	ThumbnailURL      *string    `json:"thumbnail_url"`
	Duration          int        `json:"duration" binding:"required"`
	SponsorshipAmount float64    `json:"sponsorship_amount"`
	ValidUntil        *time.Time `json:"valid_until"`
}

type ApproveContentRequest struct {
	Notes string `json:"notes"`
}

type RejectContentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CreateAssignmentRequest struct {
	ContentID     string                 `json:"content_id" binding:"required"`
	DisplayID     string                 `json:"display_id" binding:"required"`
	Title         string                 `json:"title"      binding:"required"`
	BasePriority  string                 `json:"base_priority" binding:"required"`
	StartDate     time.Time              `json:"start_date" binding:"required"`
	EndDate       time.Time              `json:"end_date"   binding:"required"`
	Timezone      string                 `json:"timezone"`
	Rules         *model.SchedulingRules `json:"rules"`
	Targeting     *model.Targeting       `json:"targeting"`
	Layout        *model.DisplayLayout   `json:"layout"`
	SponsorshipID *string                `json:"sponsorship_id"`
}

type UpdateAssignmentRequest struct {
	Title         *string                `json:"title"`
	BasePriority  *string                `json:"base_priority"`
	StartDate     *time.Time             `json:"start_date"`
	EndDate       *time.Time             `json:"end_date"`
	Timezone      *string                `json:"timezone"`
	Rules         *model.SchedulingRules `json:"rules"`
	Targeting     *model.Targeting       `json:"targeting"`
	Layout        *model.DisplayLayout   `json:"layout"`
	SponsorshipID *string                `json:"sponsorship_id"`
	IsActive      *bool                  `json:"is_active"`
}

type CreateDisplayRequest struct {
	Name               string   `json:"name" binding:"required"`
	Location           *string  `json:"location"`
	PrayerZone         string   `json:"prayer_zone" binding:"required"`
	Language           string   `json:"language"`
	Zone               string   `json:"zone"`
	Tags               []string `json:"tags"`
	CarouselInterval   int      `json:"carousel_interval"`
	MaxContentItems    int      `json:"max_content_items"`
	AutoRefreshMinutes int      `json:"auto_refresh_minutes"`
	RespectPriority    *bool    `json:"respect_priority"`
	DurationDriven     bool     `json:"duration_driven"`
}

type UpdateDisplayRequest struct {
	Name               *string  `json:"name"`
	Location           *string  `json:"location"`
	PrayerZone         *string  `json:"prayer_zone"`
	Language           *string  `json:"language"`
	Zone               *string  `json:"zone"`
	Tags               []string `json:"tags"`
	CarouselInterval   *int     `json:"carousel_interval"`
	MaxContentItems    *int     `json:"max_content_items"`
	AutoRefreshMinutes *int     `json:"auto_refresh_minutes"`
	RespectPriority    *bool    `json:"respect_priority"`
	DurationDriven     *bool    `json:"duration_driven"`
}
