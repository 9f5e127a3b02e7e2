package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/editor"
	"github.com/iliyamo/hall-config-editor/internal/layout"
	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
	"github.com/iliyamo/hall-config-editor/internal/session"
)

// HallFinder is the ownership check in front of hall selection.
type HallFinder interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hall, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Hall, error)
}

// EditorHandler serves the seat map editor of the authenticated owner.
type EditorHandler struct {
	Sessions *session.Manager
	Halls    HallFinder
}

// NewEditorHandler panics if a dependency is nil.
func NewEditorHandler(sessions *session.Manager, halls HallFinder) *EditorHandler {
	if sessions == nil || halls == nil {
		panic("nil dependency passed to NewEditorHandler")
	}
	return &EditorHandler{Sessions: sessions, Halls: halls}
}

// session resolves the caller's working session.
func (h *EditorHandler) session(c echo.Context) (*session.Session, error) {
	id, err := ownerID(c)
	if err != nil {
		return nil, err
	}
	return h.Sessions.Get(id), nil
}

// Snapshot handles GET /v1/editor.
func (h *EditorHandler) Snapshot(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s.Editor.Snapshot())
}

// ListHalls handles GET /v1/editor/halls and feeds the hall picker.
func (h *EditorHandler) ListHalls(c echo.Context) error {
	id, err := ownerID(c)
	if err != nil {
		return fail(c, err)
	}
	halls, err := h.Halls.ListByOwner(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("editor: list halls for owner %d: %v", id, err)
		return errorJSON(c, http.StatusInternalServerError, "could not list halls")
	}
	if halls == nil {
		halls = []model.Hall{}
	}
	return c.JSON(http.StatusOK, halls)
}

// SelectHall handles PUT /v1/editor/hall.  Switching away from a dirty
// draft requires confirm_discard; otherwise 409 with pending=true.
func (h *EditorHandler) SelectHall(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		HallID         uint64 `json:"hall_id"`
		ConfirmDiscard bool   `json:"confirm_discard"`
	}
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if body.HallID == 0 {
		return errorJSON(c, http.StatusBadRequest, "hall_id is required")
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByIDAndOwner(ctx, body.HallID, s.OwnerID); err != nil {
		return fail(c, err)
	}
	if req := s.Editor.RequestSwitch(body.HallID); req.Pending && !body.ConfirmDiscard {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   editor.ErrUnsavedChanges.Error(),
			"hall_id": req.HallID,
			"pending": true,
		})
	}
	if err := s.Editor.SelectHall(ctx, body.HallID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s.Editor.Snapshot())
}

// Save handles POST /v1/editor/save.  A pending auto-save is run first so
// the explicit save never races it.
func (h *EditorHandler) Save(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	if err := s.Autosave.Flush(); err != nil {
		return fail(c, err)
	}
	if err := s.Editor.Save(c.Request().Context()); err != nil && !errors.Is(err, resilient.ErrNothingToSave) {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s.Editor.Snapshot())
}

// DismissError handles POST /v1/editor/dismiss.
func (h *EditorHandler) DismissError(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	s.Editor.DismissError()
	return c.NoContent(http.StatusNoContent)
}

// Autosave handles GET /v1/editor/autosave.
func (h *EditorHandler) Autosave(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"indicator": s.Autosave.Indicator(),
		"pending":   s.Autosave.Pending(),
	})
}

// AddSeat handles POST /v1/editor/seats.
func (h *EditorHandler) AddSeat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		SeatNumber string `json:"seat_number"`
	}
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	seat, err := s.Editor.AddSeat(body.SeatNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, seat)
}

// UpdateSeat handles PUT /v1/editor/seats/:number.  Omitted coordinates
// keep the seat where it is.
func (h *EditorHandler) UpdateSeat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	number, err := seatParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid seat number")
	}
	var body struct {
		XCoord      *int             `json:"x_coord"`
		YCoord      *int             `json:"y_coord"`
		SpaceType   string           `json:"space_type"`
		CustomPrice *float64         `json:"custom_price"`
		LadiesOnly  bool             `json:"ladies_only"`
		Status      model.SeatStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	cur, ok := findSeat(s.Editor.Snapshot(), number)
	if !ok {
		return fail(c, editor.ErrSeatNotFound)
	}
	upd := model.Seat{
		SeatNumber:  number,
		XCoord:      cur.XCoord,
		YCoord:      cur.YCoord,
		SpaceType:   body.SpaceType,
		CustomPrice: body.CustomPrice,
		LadiesOnly:  body.LadiesOnly,
		Status:      body.Status,
	}
	if body.XCoord != nil {
		upd.XCoord = *body.XCoord
	}
	if body.YCoord != nil {
		upd.YCoord = *body.YCoord
	}
	if err := s.Editor.UpdateSeatProperties(upd); err != nil {
		return fail(c, err)
	}
	seat, _ := findSeat(s.Editor.Snapshot(), number)
	return c.JSON(http.StatusOK, seat)
}

// MoveSeat handles PATCH /v1/editor/seats/:number/position with either
// an absolute {x, y} drop point or a {dx, dy} drag delta.
func (h *EditorHandler) MoveSeat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	number, err := seatParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid seat number")
	}
	var body struct {
		X  *float64 `json:"x"`
		Y  *float64 `json:"y"`
		DX *float64 `json:"dx"`
		DY *float64 `json:"dy"`
	}
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	var move layout.Move
	switch {
	case body.X != nil && body.Y != nil:
		move = layout.To(*body.X, *body.Y)
	case body.DX != nil || body.DY != nil:
		move = layout.By(deref(body.DX), deref(body.DY))
	default:
		return errorJSON(c, http.StatusBadRequest, "x and y, or dx and dy, are required")
	}
	seat, err := s.Editor.MoveSeat(number, move)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// SelectSeat handles POST /v1/editor/seats/:number/select.
func (h *EditorHandler) SelectSeat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	number, err := seatParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid seat number")
	}
	if err := s.Editor.SelectSeat(number); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteSeat handles DELETE /v1/editor/seats/:number.  The portal asks
// the owner to confirm before calling it.
func (h *EditorHandler) DeleteSeat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	number, err := seatParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid seat number")
	}
	if err := s.Editor.DeleteSeat(c.Request().Context(), number); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddShift handles POST /v1/editor/shifts.
func (h *EditorHandler) AddShift(c echo.Context) error {
	return h.putShift(c, nil, http.StatusCreated)
}

// UpdateShift handles PUT /v1/editor/shifts/:index.
func (h *EditorHandler) UpdateShift(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid shift index")
	}
	return h.putShift(c, &idx, http.StatusOK)
}

func (h *EditorHandler) putShift(c echo.Context, idx *int, status int) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var body model.Shift
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.ID = nil
	if err := s.Editor.AddOrUpdateShift(body, idx); err != nil {
		return fail(c, err)
	}
	return c.JSON(status, s.Editor.Snapshot().Shifts)
}

// DeleteShift handles DELETE /v1/editor/shifts/:index.
func (h *EditorHandler) DeleteShift(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid shift index")
	}
	if err := s.Editor.DeleteShift(idx); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// seatParam returns the unescaped :number path segment.  Seat numbers
// may contain characters that need escaping in a URL.
func seatParam(c echo.Context) (string, error) {
	return url.PathUnescape(c.Param("number"))
}

func findSeat(snap editor.Snapshot, number string) (model.Seat, bool) {
	for _, s := range snap.Seats {
		if s.SeatNumber == number {
			return s, true
		}
	}
	return model.Seat{}, false
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
