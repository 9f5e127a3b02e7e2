package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/editor"
	"github.com/iliyamo/hall-config-editor/internal/middleware"
	"github.com/iliyamo/hall-config-editor/internal/onboarding"
	"github.com/iliyamo/hall-config-editor/internal/repository"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
	"github.com/iliyamo/hall-config-editor/internal/settings"
)

// errUnauthorized is returned when JWTAuth left no usable subject.
var errUnauthorized = errors.New("unauthorized")

// errorJSON writes the {"error": msg} body every handler uses.
func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// ownerID extracts the authenticated owner or answers 401.
func ownerID(c echo.Context) (uint64, error) {
	id, ok := middleware.SubjectID(c)
	if !ok {
		return 0, errUnauthorized
	}
	return id, nil
}

// fail maps a domain error onto the response status and message.
func fail(c echo.Context, err error) error {
	var f *resilient.Failure
	switch {
	case errors.Is(err, errUnauthorized):
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, editor.ErrDuplicateIdentifier), errors.Is(err, editor.ErrOverlapDetected):
		return errorJSON(c, http.StatusConflict, err.Error())
	case editor.IsValidation(err), isFormError(err):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, editor.ErrNoParentSelected),
		errors.Is(err, editor.ErrNotEditable),
		errors.Is(err, editor.ErrUnsavedChanges),
		errors.Is(err, onboarding.ErrWrongStep):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrSeatNotFound), errors.Is(err, editor.ErrShiftNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrHallNotFound):
		return errorJSON(c, http.StatusNotFound, "hall not found")
	case errors.As(err, &f):
		return errorJSON(c, failureStatus(f), f.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorJSON(c, http.StatusServiceUnavailable, "request cancelled")
	}
	c.Logger().Errorf("handler: unexpected error: %v", err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// failureStatus keeps a collaborator's 4xx answer and reports everything
// else as a bad gateway.
func failureStatus(f *resilient.Failure) int {
	var se *resilient.StatusError
	if errors.As(f, &se) && se.Status >= 400 && se.Status < 500 {
		return se.Status
	}
	return http.StatusBadGateway
}

func isFormError(err error) bool {
	for _, v := range []error{
		onboarding.ErrNameRequired, onboarding.ErrInvalidPricing,
		onboarding.ErrAddressRequired, onboarding.ErrInvalidCoords,
		settings.ErrInvalidCurrency, settings.ErrInvalidTimezone,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
