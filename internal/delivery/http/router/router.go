// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"fitsync/internal/delivery/http/middleware"
	"fitsync/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ParticipantHandler  *handler.ParticipantHandler
	OAuthHandler        *handler.OAuthHandler
	SyncHandler         *handler.SyncHandler
	ExportHandler       *handler.ExportHandler
	SessionMiddleware   *middleware.SessionMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	participantHandler  *handler.ParticipantHandler
	oauthHandler        *handler.OAuthHandler
	syncHandler         *handler.SyncHandler
	exportHandler       *handler.ExportHandler
	sessionMiddleware   *middleware.SessionMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		participantHandler:  params.ParticipantHandler,
		oauthHandler:        params.OAuthHandler,
		syncHandler:         params.SyncHandler,
		exportHandler:       params.ExportHandler,
		sessionMiddleware:   params.SessionMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Participant registry routes
	participantGroup := e.Group("/participants")
	{
		participantGroup.POST("", r.participantHandler.Create)
		participantGroup.GET("", r.participantHandler.List)
		participantGroup.GET("/:id", r.participantHandler.Get)
		participantGroup.PUT("/:id", r.participantHandler.Update)
		participantGroup.DELETE("/:id", r.participantHandler.Delete)
		participantGroup.POST("/:id/disconnect", r.oauthHandler.Disconnect)
		participantGroup.POST("/:id/sync", r.syncHandler.Sync)
		participantGroup.POST("/:id/export", r.exportHandler.Export)
	}

	// OAuth routes share one browser session across authorize and callback
	oauthGroup := e.Group("/oauth/fitbit")
	oauthGroup.Use(r.sessionMiddleware.WithSession)
	{
		oauthGroup.GET("/authorize", r.oauthHandler.Authorize)
		oauthGroup.GET("/callback", r.oauthHandler.Callback)
	}
}
