package packets

import (
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// ReportImpressionRequest is one playback report from a display client.
// Clients retry after network failures; shown_at doubles as the idempotency
// key together with assignment_id.
type ReportImpressionRequest struct {
	AssignmentID   string    `json:"assignment_id" binding:"required"`
	DisplayID      string    `json:"display_id"    binding:"required"`
	ShownAt        time.Time `json:"shown_at"      binding:"required"`
	ActualDuration int       `json:"actual_duration"`
}

// ScheduleResponse is what a display client plays for one refresh cycle.
type ScheduleResponse struct {
	DisplayID   string                `json:"display_id"`
	ComputedAt  string                `json:"computed_at"`
	RefreshSecs int                   `json:"refresh_secs"`
	Entries     []ScheduleEntryPacket `json:"entries"`
}

type ScheduleEntryPacket struct {
	AssignmentID      string              `json:"assignment_id"`
	ContentID         string              `json:"content_id"`
	ContentType       string              `json:"content_type"`
	URL               string              `json:"url"`
	PlannedAt         string              `json:"planned_at"`
	Duration          int                 `json:"duration"`
	EffectivePriority float64             `json:"effective_priority"`
	Layout            model.DisplayLayout `json:"layout"`
}
