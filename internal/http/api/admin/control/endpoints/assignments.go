package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/admin/control/packets"
	"github.com/papan-digital/minbar/internal/http/middleware"
	"github.com/papan-digital/minbar/internal/model"
	"github.com/papan-digital/minbar/internal/scheduling"
)

type AssignmentController struct {
	store db.Store
}

func newAssignmentController(store db.Store) *AssignmentController {
	return &AssignmentController{store: store}
}

// AssignmentModule mounts all authenticated /assignments endpoints
func AssignmentModule(store db.Store) api.Module {
	ctl := newAssignmentController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/assignments/:id", ctl.getAssignment)
		c.GET("/displays/:id/assignments", ctl.listForDisplay)
		c.POST("/assignments", ctl.createAssignment)
		c.PUT("/assignments/:id", ctl.updateAssignment)
		c.DELETE("/assignments/:id", ctl.deactivateAssignment)
	})
}

func (a *AssignmentController) getAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	found, err := a.store.GetAssignmentByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	return assignmentResponse(found), nil
}

func (a *AssignmentController) listForDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := a.store.ListAssignmentsForDisplay(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list assignments"}
	}

	out := make([]packets.AssignmentResponse, 0, len(all))
	for _, x := range all {
		out = append(out, assignmentResponse(x))
	}
	return out, nil
}

func (a *AssignmentController) createAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := a.store.GetContentByID(request.ContentID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}
	if _, err := a.store.GetDisplayByID(request.DisplayID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "display not found"}
	}

	assignment := model.Assignment{
		ID:            uuid.NewString(),
		ContentID:     request.ContentID,
		DisplayID:     request.DisplayID,
		Title:         request.Title,
		BasePriority:  model.PriorityTier(request.BasePriority),
		StartDate:     request.StartDate,
		EndDate:       request.EndDate,
		Timezone:      request.Timezone,
		Rules:         defaultRules(),
		Layout:        model.FullscreenLayout,
		SponsorshipID: request.SponsorshipID,
		IsActive:      true,
		CreatedBy:     actorID(user),
	}
	if assignment.Timezone == "" {
		assignment.Timezone = "Asia/Kuala_Lumpur"
	}
	if request.Rules != nil {
		assignment.Rules = *request.Rules
	}
	if request.Targeting != nil {
		assignment.Targeting = *request.Targeting
	}
	if request.Layout != nil {
		assignment.Layout = *request.Layout
	}

	if err := scheduling.ValidateAssignment(assignment); err != nil {
		return nil, api.FromSchedulingError(err)
	}

	created, err := a.store.CreateAssignment(assignment)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create assignment"}
	}

	middleware.NotifyDisplayRefresh(created.DisplayID)
	return assignmentResponse(created), nil
}

func (a *AssignmentController) updateAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	existing, err := a.store.GetAssignmentByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	var request packets.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.Title != nil {
		existing.Title = *request.Title
	}
	if request.BasePriority != nil {
		existing.BasePriority = model.PriorityTier(*request.BasePriority)
	}
	if request.StartDate != nil {
		existing.StartDate = *request.StartDate
	}
	if request.EndDate != nil {
		existing.EndDate = *request.EndDate
	}
	if request.Timezone != nil {
		existing.Timezone = *request.Timezone
	}
	if request.Rules != nil {
		existing.Rules = *request.Rules
	}
	if request.Targeting != nil {
		existing.Targeting = *request.Targeting
	}
	if request.Layout != nil {
		existing.Layout = *request.Layout
	}
	if request.SponsorshipID != nil {
		existing.SponsorshipID = request.SponsorshipID
	}
	if request.IsActive != nil {
		existing.IsActive = *request.IsActive
	}

	if err := scheduling.ValidateAssignment(existing); err != nil {
		return nil, api.FromSchedulingError(err)
	}

	if err := a.store.UpdateAssignment(existing); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update assignment"}
	}

	middleware.NotifyDisplayRefresh(existing.DisplayID)
	return assignmentResponse(existing), nil
}

// DELETE clears is_active rather than removing the row; the impressions log
// keeps referencing it.
func (a *AssignmentController) deactivateAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	existing, err := a.store.GetAssignmentByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	if err := a.store.SetAssignmentActive(existing.ID, false); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not deactivate"}
	}

	middleware.NotifyDisplayRefresh(existing.DisplayID)
	return gin.H{"message": "deactivated"}, nil
}

func defaultRules() model.SchedulingRules {
	return model.SchedulingRules{
		AvoidPrayerTimes:    true,
		PrayerOffsetMinutes: 5,
		MaxDisplaysPerHour:  6,
		MinIntervalMinutes:  10,
	}
}

func assignmentResponse(x model.Assignment) packets.AssignmentResponse {
	resp := packets.AssignmentResponse{
		ID:            x.ID,
		ContentID:     x.ContentID,
		DisplayID:     x.DisplayID,
		Title:         x.Title,
		BasePriority:  string(x.BasePriority),
		StartDate:     x.StartDate.Format(time.RFC3339),
		EndDate:       x.EndDate.Format(time.RFC3339),
		Timezone:      x.Timezone,
		Rules:         x.Rules,
		Targeting:     x.Targeting,
		Layout:        x.Layout,
		SponsorshipID: x.SponsorshipID,
		IsActive:      x.IsActive,
		DisplayCount:  x.DisplayCount,
	}
	if x.LastDisplayed != nil {
		s := x.LastDisplayed.Format(time.RFC3339)
		resp.LastDisplayed = &s
	}
	return resp
}
