package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/tv/packets"
	"github.com/papan-digital/minbar/internal/model"
	"github.com/papan-digital/minbar/internal/scheduling"
)

type ImpressionController struct {
	engine *scheduling.Engine
}

// ImpressionModule mounts the display client's playback report endpoint.
func ImpressionModule(engine *scheduling.Engine) api.Module {
	ctl := &ImpressionController{engine: engine}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/impressions", ctl.reportImpression)
	})
}

// POST /api/tv/impressions is idempotent: a retried report for the same
// (assignment, shown_at) pair answers 200 without double-counting.
func (i *ImpressionController) reportImpression(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReportImpressionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	err := i.engine.RecordImpression(model.Impression{
		AssignmentID:   request.AssignmentID,
		DisplayID:      request.DisplayID,
		ShownAt:        request.ShownAt,
		ActualDuration: request.ActualDuration,
	})
	if err != nil {
		return nil, api.FromSchedulingError(err)
	}
	return gin.H{"message": "recorded"}, nil
}
