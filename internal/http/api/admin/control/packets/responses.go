package packets

import "github.com/papan-digital/minbar/internal/model"

// ContentResponse mirrors model.ContentItem but flattens times to RFC3339.
type ContentResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Type              string  `json:"type"`
	URL               string  `json:"url"`
	ThumbnailURL      *string `json:"thumbnail_url,omitempty"`
	Duration          int     `json:"duration"`
	Status            string  `json:"status"`
	SponsorshipAmount float64 `json:"sponsorship_amount"`
	SubmittedBy       string  `json:"submitted_by"`
	SubmittedAt       string  `json:"submitted_at"`
	ApprovedBy        *string `json:"approved_by,omitempty"`
	ApprovedAt        *string `json:"approved_at,omitempty"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
	ValidUntil        *string `json:"valid_until,omitempty"`
}

type AssignmentResponse struct {
	ID            string                `json:"id"`
	ContentID     string                `json:"content_id"`
	DisplayID     string                `json:"display_id"`
	Title         string                `json:"title"`
	BasePriority  string                `json:"base_priority"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	Timezone      string                `json:"timezone"`
	Rules         model.SchedulingRules `json:"rules"`
	Targeting     model.Targeting       `json:"targeting"`
	Layout        model.DisplayLayout   `json:"layout"`
	SponsorshipID *string               `json:"sponsorship_id,omitempty"`
	IsActive      bool                  `json:"is_active"`
	LastDisplayed *string               `json:"last_displayed,omitempty"`
	DisplayCount  int                   `json:"display_count"`
}

type DisplayResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Location           *string  `json:"location,omitempty"`
	PrayerZone         string   `json:"prayer_zone"`
	Language           string   `json:"language"`
	Zone               string   `json:"zone"`
	Tags               []string `json:"tags"`
	CarouselInterval   int      `json:"carousel_interval"`
	MaxContentItems    int      `json:"max_content_items"`
	AutoRefreshMinutes int      `json:"auto_refresh_minutes"`
	RespectPriority    bool     `json:"respect_priority"`
	DurationDriven     bool     `json:"duration_driven"`
	Paired             bool     `json:"paired"`
}
