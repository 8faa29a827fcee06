package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/admin/control/packets"
	"github.com/papan-digital/minbar/internal/http/middleware"
	"github.com/papan-digital/minbar/internal/model"
	"github.com/papan-digital/minbar/internal/scheduling"
	"github.com/papan-digital/minbar/internal/storage"
)

type ContentController struct {
	store   db.Store
	engine  *scheduling.Engine
	storage storage.Storage
}

func newContentController(store db.Store, engine *scheduling.Engine, storage storage.Storage) *ContentController {
	return &ContentController{store: store, engine: engine, storage: storage}
}

// ContentModule mounts all authenticated /content endpoints
func ContentModule(store db.Store, engine *scheduling.Engine, storage storage.Storage) api.Module {
	ctl := newContentController(store, engine, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/content/:id", ctl.getContent)
		c.GET("/content", ctl.listContent)
		c.POST("/content", ctl.createContent)
		c.POST("/content/upload", ctl.uploadMedia)
		c.POST("/content/:id/approve", ctl.approveContent)
		c.POST("/content/:id/reject", ctl.rejectContent)
	})
}

// GET /content?status=pending lists the approval queue; without a status
// filter it lists the caller's own submissions.
func (c *ContentController) listContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var (
		items []model.ContentItem
		err   error
	)
	if status := ctx.Query("status"); status != "" {
		items, err = c.store.ListContentByStatus(model.ContentStatus(status))
	} else {
		items, err = c.store.ListContentBySubmitter(actorID(user))
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list content"}
	}

	out := make([]packets.ContentResponse, 0, len(items))
	for _, x := range items {
		out = append(out, contentResponse(x))
	}
	return out, nil
}

func (c *ContentController) getContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	x, err := c.store.GetContentByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	return contentResponse(x), nil
}

// POST /content submits a new item into the approval queue as pending.
func (c *ContentController) createContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item := model.ContentItem{
		ID:                uuid.NewString(),
		Title:             request.Title,
		Type:              model.ContentType(request.Type),
		URL:               request.URL,
		ThumbnailURL:      request.ThumbnailURL,
		Duration:          request.Duration,
		Status:            model.ContentStatusPending,
		SponsorshipAmount: request.SponsorshipAmount,
		SubmittedBy:       actorID(user),
		SubmittedAt:       time.Now().UTC(),
		ValidUntil:        request.ValidUntil,
	}

	if err := scheduling.ValidateContent(item); err != nil {
		return nil, api.FromSchedulingError(err)
	}

	created, err := c.store.CreateContent(item)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create content"}
	}
	return contentResponse(created), nil
}

// POST /content/upload stores a media file and returns its public URL, which
// the dashboard then references from a createContent call.
func (c *ContentController) uploadMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing file"}
	}

	url, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("media upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store file"}
	}
	return gin.H{"url": url}, nil
}

// POST /content/:id/approve
func (c *ContentController) approveContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ApproveContentRequest
	// body optional, an empty approve is fine
	_ = ctx.ShouldBindJSON(&request)

	item, err := c.engine.TransitionContent(ctx.Param("id"), scheduling.ActionApprove, actorID(user), request.Notes, time.Now().UTC())
	if err != nil {
		return nil, api.FromSchedulingError(err)
	}

	c.notifyAssignedDisplays(item.ID)
	return contentResponse(item), nil
}

// POST /content/:id/reject
func (c *ContentController) rejectContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RejectContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := c.engine.TransitionContent(ctx.Param("id"), scheduling.ActionReject, actorID(user), request.Reason, time.Now().UTC())
	if err != nil {
		return nil, api.FromSchedulingError(err)
	}
	return contentResponse(item), nil
}

// notifyAssignedDisplays pokes every display carrying the content so they
// refresh without waiting for their auto-refresh interval.
func (c *ContentController) notifyAssignedDisplays(contentID string) {
	assignments, err := c.store.ListAssignmentsForContent(contentID)
	if err != nil {
		return
	}
	seen := map[string]bool{}
	for _, a := range assignments {
		if !seen[a.DisplayID] {
			seen[a.DisplayID] = true
			middleware.NotifyDisplayRefresh(a.DisplayID)
		}
	}
}

func actorID(user *model.User) string {
	return strconv.Itoa(user.ID)
}

func contentResponse(x model.ContentItem) packets.ContentResponse {
	resp := packets.ContentResponse{
		ID:                x.ID,
		Title:             x.Title,
		Type:              string(x.Type),
		URL:               x.URL,
		ThumbnailURL:      x.ThumbnailURL,
		Duration:          x.Duration,
		Status:            string(x.Status),
		SponsorshipAmount: x.SponsorshipAmount,
		SubmittedBy:       x.SubmittedBy,
		SubmittedAt:       x.SubmittedAt.Format(time.RFC3339),
		ApprovedBy:        x.ApprovedBy,
		RejectionReason:   x.RejectionReason,
	}
	if x.ApprovedAt != nil {
		s := x.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if x.ValidUntil != nil {
		s := x.ValidUntil.Format(time.RFC3339)
		resp.ValidUntil = &s
	}
	return resp
}
