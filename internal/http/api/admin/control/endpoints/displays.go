package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/admin/control/packets"
	"github.com/papan-digital/minbar/internal/model"
)

type DisplayController struct {
	store db.Store
}

func newDisplayController(store db.Store) *DisplayController {
	return &DisplayController{store: store}
}

// DisplayModule mounts all authenticated /displays endpoints
func DisplayModule(store db.Store) api.Module {
	ctl := newDisplayController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/displays", ctl.listDisplays)
		c.GET("/displays/:id", ctl.getDisplay)
		c.POST("/displays", ctl.createDisplay)
		c.PUT("/displays/:id", ctl.updateDisplay)
	})
}

func (d *DisplayController) listDisplays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := d.store.ListDisplays()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list displays"}
	}

	out := make([]packets.DisplayResponse, 0, len(all))
	for _, x := range all {
		out = append(out, displayResponse(x))
	}
	return out, nil
}

func (d *DisplayController) getDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	found, err := d.store.GetDisplayByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	return displayResponse(found), nil
}

func (d *DisplayController) createDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateDisplayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	display := model.Display{
		ID:                 uuid.NewString(),
		Name:               request.Name,
		Location:           request.Location,
		PrayerZone:         request.PrayerZone,
		Language:           request.Language,
		Zone:               request.Zone,
		Tags:               request.Tags,
		CarouselInterval:   request.CarouselInterval,
		MaxContentItems:    request.MaxContentItems,
		AutoRefreshMinutes: request.AutoRefreshMinutes,
		RespectPriority:    true,
		DurationDriven:     request.DurationDriven,
	}
	if request.RespectPriority != nil {
		display.RespectPriority = *request.RespectPriority
	}
	applyDisplayDefaults(&display)
	if apiErr := validateDisplayConfig(display); apiErr != nil {
		return nil, apiErr
	}

	created, err := d.store.CreateDisplay(display)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create display"}
	}
	return displayResponse(created), nil
}

func (d *DisplayController) updateDisplay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	existing, err := d.store.GetDisplayByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	var request packets.UpdateDisplayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.Name != nil {
		existing.Name = *request.Name
	}
	if request.Location != nil {
		existing.Location = request.Location
	}
	if request.PrayerZone != nil {
		existing.PrayerZone = *request.PrayerZone
	}
	if request.Language != nil {
		existing.Language = *request.Language
	}
	if request.Zone != nil {
		existing.Zone = *request.Zone
	}
	if request.Tags != nil {
		existing.Tags = request.Tags
	}
	if request.CarouselInterval != nil {
		existing.CarouselInterval = *request.CarouselInterval
	}
	if request.MaxContentItems != nil {
		existing.MaxContentItems = *request.MaxContentItems
	}
	if request.AutoRefreshMinutes != nil {
		existing.AutoRefreshMinutes = *request.AutoRefreshMinutes
	}
	if request.RespectPriority != nil {
		existing.RespectPriority = *request.RespectPriority
	}
	if request.DurationDriven != nil {
		existing.DurationDriven = *request.DurationDriven
	}

	if apiErr := validateDisplayConfig(existing); apiErr != nil {
		return nil, apiErr
	}

	if err := d.store.UpdateDisplayConfig(existing); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update display"}
	}
	return displayResponse(existing), nil
}

func applyDisplayDefaults(d *model.Display) {
	if d.CarouselInterval == 0 {
		d.CarouselInterval = 15
	}
	if d.MaxContentItems == 0 {
		d.MaxContentItems = 10
	}
	if d.AutoRefreshMinutes == 0 {
		d.AutoRefreshMinutes = 5
	}
	if d.Language == "" {
		d.Language = "ms"
	}
}

func validateDisplayConfig(d model.Display) *api.APIError {
	if d.CarouselInterval < 5 || d.CarouselInterval > 300 {
		return &api.APIError{Code: http.StatusBadRequest, Message: "carousel interval must be 5-300 seconds"}
	}
	if d.MaxContentItems < 1 || d.MaxContentItems > 20 {
		return &api.APIError{Code: http.StatusBadRequest, Message: "max content items must be 1-20"}
	}
	if d.AutoRefreshMinutes < 1 || d.AutoRefreshMinutes > 60 {
		return &api.APIError{Code: http.StatusBadRequest, Message: "auto refresh must be 1-60 minutes"}
	}
	return nil
}

func displayResponse(x model.Display) packets.DisplayResponse {
	return packets.DisplayResponse{
		ID:                 x.ID,
		Name:               x.Name,
		Location:           x.Location,
		PrayerZone:         x.PrayerZone,
		Language:           x.Language,
		Zone:               x.Zone,
		Tags:               x.Tags,
		CarouselInterval:   x.CarouselInterval,
		MaxContentItems:    x.MaxContentItems,
		AutoRefreshMinutes: x.AutoRefreshMinutes,
		RespectPriority:    x.RespectPriority,
		DurationDriven:     x.DurationDriven,
		Paired:             x.Paired,
	}
}
