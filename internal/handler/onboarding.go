package handler // handler defines http handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/onboarding"
	"github.com/iliyamo/hall-config-editor/internal/session"
)

// OnboardingHandler drives the hall creation wizard.
type OnboardingHandler struct {
	Sessions *session.Manager
}

// NewOnboardingHandler panics if sessions is nil.
func NewOnboardingHandler(sessions *session.Manager) *OnboardingHandler {
	if sessions == nil {
		panic("nil session manager passed to NewOnboardingHandler")
	}
	return &OnboardingHandler{Sessions: sessions}
}

func (h *OnboardingHandler) wizard(c echo.Context) (*onboarding.Wizard, error) {
	id, err := ownerID(c)
	if err != nil {
		return nil, err
	}
	return h.Sessions.Get(id).Wizard(), nil
}

// State handles GET /v1/onboarding.
func (h *OnboardingHandler) State(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, w.State())
}

// Restart handles POST /v1/onboarding/restart.
func (h *OnboardingHandler) Restart(c echo.Context) error {
	id, err := ownerID(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Sessions.Get(id).RestartWizard().State())
}

// SubmitHall handles POST /v1/onboarding/hall.
func (h *OnboardingHandler) SubmitHall(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return fail(c, err)
	}
	var body onboarding.HallInput
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	hall, err := w.SubmitHall(c.Request().Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

// SubmitPricing handles POST /v1/onboarding/pricing.
func (h *OnboardingHandler) SubmitPricing(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return fail(c, err)
	}
	var body model.Pricing
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := w.SubmitPricing(c.Request().Context(), body); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, w.State())
}

// SubmitLocation handles POST /v1/onboarding/location.
func (h *OnboardingHandler) SubmitLocation(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return fail(c, err)
	}
	var body model.Location
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := w.SubmitLocation(c.Request().Context(), body); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, w.State())
}

// Back handles POST /v1/onboarding/back.
func (h *OnboardingHandler) Back(c echo.Context) error {
	w, err := h.wizard(c)
	if err != nil {
		return fail(c, err)
	}
	if _, err := w.Back(); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, w.State())
}
