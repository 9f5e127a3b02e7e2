package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/handler"    // owner handlers
	"github.com/iliyamo/hall-config-editor/internal/middleware" // JWT + role middlewares
)

// OwnerHandlers groups the handlers mounted under the owner API.
type OwnerHandlers struct {
	Editor     *handler.EditorHandler
	Onboarding *handler.OnboardingHandler
	Settings   *handler.SettingsHandler
}

// RegisterOwner registers OWNER-scoped endpoints under /v1.  All routes
// require a valid JWT and the OWNER role; limit throttles each caller.
func RegisterOwner(e *echo.Echo, h OwnerHandlers, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
		limit,
	)

	// ---- Editor ----
	g.GET("/editor", h.Editor.Snapshot)
	g.GET("/editor/halls", h.Editor.ListHalls)
	g.PUT("/editor/hall", h.Editor.SelectHall)
	g.POST("/editor/save", h.Editor.Save)
	g.POST("/editor/dismiss", h.Editor.DismissError)
	g.GET("/editor/autosave", h.Editor.Autosave)

	// ---- Seats ----
	g.POST("/editor/seats", h.Editor.AddSeat)
	g.PUT("/editor/seats/:number", h.Editor.UpdateSeat)
	g.PATCH("/editor/seats/:number/position", h.Editor.MoveSeat)
	g.POST("/editor/seats/:number/select", h.Editor.SelectSeat)
	g.DELETE("/editor/seats/:number", h.Editor.DeleteSeat)

	// ---- Shifts ----
	g.POST("/editor/shifts", h.Editor.AddShift)
	g.PUT("/editor/shifts/:index", h.Editor.UpdateShift)
	g.DELETE("/editor/shifts/:index", h.Editor.DeleteShift)

	// ---- Onboarding ----
	g.GET("/onboarding", h.Onboarding.State)
	g.POST("/onboarding/hall", h.Onboarding.SubmitHall)
	g.POST("/onboarding/pricing", h.Onboarding.SubmitPricing)
	g.POST("/onboarding/location", h.Onboarding.SubmitLocation)
	g.POST("/onboarding/back", h.Onboarding.Back)
	g.POST("/onboarding/restart", h.Onboarding.Restart)

	// ---- Settings ----
	g.GET("/settings", h.Settings.Get)
	g.PATCH("/settings", h.Settings.Update)
	g.GET("/settings/autosave", h.Settings.Autosave)
}
