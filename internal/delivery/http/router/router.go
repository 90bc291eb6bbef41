// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"fleetmap/internal/delivery/http/middleware"
	"fleetmap/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	FleetHandler        *handler.FleetHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	fleetHandler        *handler.FleetHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		fleetHandler:        params.FleetHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Live fleet map routes
	fleetGroup := e.Group("/fleet")
	fleetGroup.Use(r.requestIDMiddleware.Process)
	{
		fleetGroup.GET("/map", r.fleetHandler.GetMap)
		fleetGroup.POST("/refresh", r.fleetHandler.Refresh)
		fleetGroup.GET("/drivers", r.fleetHandler.ListDrivers)
	}
}
