package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/papan-digital/minbar/internal/http/middleware"
	"github.com/papan-digital/minbar/internal/model"
	"github.com/papan-digital/minbar/internal/scheduling"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// Controller wraps a gin group so modules can register typed handlers.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth)    { c.Group.GET(path, resolveWithAuth(h)) }
func (c *Controller) POST(path string, h HandlerFuncWithAuth)   { c.Group.POST(path, resolveWithAuth(h)) }
func (c *Controller) PUT(path string, h HandlerFuncWithAuth)    { c.Group.PUT(path, resolveWithAuth(h)) }
func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) { c.Group.DELETE(path, resolveWithAuth(h)) }

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc)  { c.Group.GET(path, resolve(h)) }
func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) { c.Group.POST(path, resolve(h)) }

func resolveWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func resolve(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

// FromSchedulingError maps a scheduling error kind to its HTTP shape.
func FromSchedulingError(err error) *APIError {
	switch scheduling.KindOf(err) {
	case scheduling.KindValidation:
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case scheduling.KindInvalidTransition:
		return &APIError{Code: http.StatusConflict, Message: err.Error()}
	case scheduling.KindSelfApprovalForbidden:
		return &APIError{Code: http.StatusForbidden, Message: err.Error()}
	case scheduling.KindNotFound:
		return &APIError{Code: http.StatusNotFound, Message: err.Error()}
	default:
		return &APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}
