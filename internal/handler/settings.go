package handler // handler defines http handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/session"
	"github.com/iliyamo/hall-config-editor/internal/settings"
)

// SettingsHandler serves the auto-saving owner settings form.
type SettingsHandler struct {
	Sessions *session.Manager
}

// NewSettingsHandler panics if sessions is nil.
func NewSettingsHandler(sessions *session.Manager) *SettingsHandler {
	if sessions == nil {
		panic("nil session manager passed to NewSettingsHandler")
	}
	return &SettingsHandler{Sessions: sessions}
}

// Get handles GET /v1/settings.  The first call loads stored values.
func (h *SettingsHandler) Get(c echo.Context) error {
	id, err := ownerID(c)
	if err != nil {
		return fail(c, err)
	}
	form := h.Sessions.Get(id).Settings
	if !form.Loaded() {
		if err := form.Load(c.Request().Context()); err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, form.View())
}

// Update handles PATCH /v1/settings.  The change is persisted by the
// settings auto-save once edits pause.
func (h *SettingsHandler) Update(c echo.Context) error {
	id, err := ownerID(c)
	if err != nil {
		return fail(c, err)
	}
	var patch settings.Patch
	if err := c.Bind(&patch); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	form := h.Sessions.Get(id).Settings
	if !form.Loaded() {
		if err := form.Load(c.Request().Context()); err != nil {
			return fail(c, err)
		}
	}
	if _, err := form.Update(patch); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, form.View())
}

// Autosave handles GET /v1/settings/autosave.
func (h *SettingsHandler) Autosave(c echo.Context) error {
	id, err := ownerID(c)
	if err != nil {
		return fail(c, err)
	}
	s := h.Sessions.Get(id)
	return c.JSON(http.StatusOK, map[string]any{
		"indicator": s.SettingsAutosave.Indicator(),
		"pending":   s.SettingsAutosave.Pending(),
	})
}
