package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/tv/packets"
	"github.com/papan-digital/minbar/internal/scheduling"
)

type ScheduleController struct {
	store  db.Store
	engine *scheduling.Engine
}

func newScheduleController(store db.Store, engine *scheduling.Engine) *ScheduleController {
	return &ScheduleController{store: store, engine: engine}
}

// ScheduleModule mounts the display client's schedule feed.
func ScheduleModule(store db.Store, engine *scheduling.Engine) api.Module {
	ctl := newScheduleController(store, engine)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/displays/:id/schedule", ctl.getSchedule)
	})
}

// GET /api/tv/displays/:id/schedule computes the playback queue for right
// now. An empty entries list is a normal answer; the client falls back to its
// prayer-times screen.
func (s *ScheduleController) getSchedule(ctx *gin.Context) (any, *api.APIError) {
	displayID := ctx.Param("id")
	instant := time.Now().UTC()

	display, err := s.store.GetDisplayByID(displayID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "display not found"}
	}

	entries, err := s.engine.ComputeSchedule(ctx.Request.Context(), displayID, instant)
	if err != nil {
		return nil, api.FromSchedulingError(err)
	}

	out := packets.ScheduleResponse{
		DisplayID:   displayID,
		ComputedAt:  instant.Format(time.RFC3339),
		RefreshSecs: display.AutoRefreshMinutes * 60,
		Entries:     make([]packets.ScheduleEntryPacket, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, packets.ScheduleEntryPacket{
			AssignmentID:      e.AssignmentID,
			ContentID:         e.ContentID,
			ContentType:       string(e.ContentType),
			URL:               e.URL,
			PlannedAt:         e.PlannedDisplayTime.Format(time.RFC3339),
			Duration:          e.Duration,
			EffectivePriority: e.EffectivePriority,
			Layout:            e.Layout,
		})
	}
	return out, nil
}
