package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hall-config-editor/internal/handler"    // handlers for the editor API
	"github.com/iliyamo/hall-config-editor/internal/middleware" // JWT, role, cache and rate limit middleware
)

// RegisterRoutes registers non-authenticated routes on the provided Echo
// instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring poll /healthz.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers guest endpoints.  The seat map route sits
// behind the per-hall Redis cache; a nil cache serves straight from MySQL.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache *middleware.SeatMapCache) {
	e.GET("/v1/halls/:id/seatmap", p.GetSeatMap, cache.Middleware())
}
