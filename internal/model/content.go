package model

import "time"

// ContentType enumerates the kinds of content a masjid can put on a display.
type ContentType string

const (
	ContentTypeImage            ContentType = "image"
	ContentTypeVideoReference   ContentType = "video_reference"
	ContentTypeTextAnnouncement ContentType = "text_announcement"
	ContentTypeEventPoster      ContentType = "event_poster"
)

// ContentStatus is the approval lifecycle state of a content item.
type ContentStatus string

const (
	ContentStatusPending  ContentStatus = "pending"
	ContentStatusActive   ContentStatus = "active"
	ContentStatusRejected ContentStatus = "rejected"
	ContentStatusExpired  ContentStatus = "expired"
)

// ContentItem is a piece of displayable content moving through the approval
// workflow. Status is only ever changed through the scheduling package's
// transition functions.
type ContentItem struct {
	ID                string        `db:"id"                 json:"id"`
	Title             string        `db:"title"              json:"title"`
	Type              ContentType   `db:"type"               json:"type"`
	URL               string        `db:"url"                json:"url"`
	ThumbnailURL      *string       `db:"thumbnail_url"      json:"thumbnail_url,omitempty"`
	Duration          int           `db:"duration"           json:"duration"` // seconds
	Status            ContentStatus `db:"status"             json:"status"`
	SponsorshipAmount float64       `db:"sponsorship_amount" json:"sponsorship_amount"`
	SubmittedBy       string        `db:"submitted_by"       json:"submitted_by"`
	SubmittedAt       time.Time     `db:"submitted_at"       json:"submitted_at"`
	ApprovedBy        *string       `db:"approved_by"        json:"approved_by,omitempty"`
	ApprovedAt        *time.Time    `db:"approved_at"        json:"approved_at,omitempty"`
	ApprovalNotes     *string       `db:"approval_notes"     json:"approval_notes,omitempty"`
	RejectionReason   *string       `db:"rejection_reason"   json:"rejection_reason,omitempty"`
	ValidUntil        *time.Time    `db:"valid_until"        json:"valid_until,omitempty"`
	CreatedAt         time.Time     `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"         json:"updated_at"`
}

// ContentTypes lists every accepted content type.
var ContentTypes = []ContentType{
	ContentTypeImage,
	ContentTypeVideoReference,
	ContentTypeTextAnnouncement,
	ContentTypeEventPoster,
}

func (t ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if t == known {
			return true
		}
	}
	return false
}
