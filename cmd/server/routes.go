package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/api"
	authapi "github.com/papan-digital/minbar/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/papan-digital/minbar/internal/http/api/admin/control/endpoints"
	tvapi "github.com/papan-digital/minbar/internal/http/api/tv/endpoints"
	"github.com/papan-digital/minbar/internal/http/middleware"
	"github.com/papan-digital/minbar/internal/scheduling"
	"github.com/papan-digital/minbar/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, engine *scheduling.Engine, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		// control modules
		adminapi.ContentModule(store, engine, storageSystem),
		adminapi.AssignmentModule(store),
		adminapi.DisplayModule(store),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
		Middleware: []gin.HandlerFunc{
			middleware.RateLimit(rate.Limit(10), 20, func(c *gin.Context) string {
				return c.ClientIP()
			}),
		},
	},
		tvapi.ScheduleModule(store, engine),
		tvapi.ImpressionModule(engine),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
