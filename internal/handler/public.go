package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/repository"
)

// HallReader loads a hall regardless of owner.
type HallReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Hall, error)
}

// SeatReader loads persisted seats.
type SeatReader interface {
	GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error)
}

// PublicHandler exposes saved seat maps to guests.  Only persisted data is
// returned; unsaved editor drafts never leave the owner's session.
type PublicHandler struct {
	Halls HallReader
	Seats SeatReader
}

// NewPublicHandler panics if a dependency is nil.
func NewPublicHandler(halls HallReader, seats SeatReader) *PublicHandler {
	if halls == nil || seats == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Halls: halls, Seats: seats}
}

// SeatMapResponse is the body of GET /v1/halls/:id/seatmap.
type SeatMapResponse struct {
	HallID    uint64       `json:"hall_id"`
	Name      string       `json:"name"`
	SeatCount int          `json:"seat_count"`
	Seats     []model.Seat `json:"seats"`
}

// GetSeatMap handles GET /v1/halls/:id/seatmap.
func (p *PublicHandler) GetSeatMap(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid hall id")
	}
	ctx := c.Request().Context()
	hall, err := p.Halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return errorJSON(c, http.StatusNotFound, "hall not found")
		}
		c.Logger().Errorf("public: load hall %d: %v", id, err)
		return errorJSON(c, http.StatusInternalServerError, "could not load hall")
	}
	if !hall.IsActive {
		return errorJSON(c, http.StatusNotFound, "hall not found")
	}
	seats, err := p.Seats.GetByHall(ctx, id)
	if err != nil {
		c.Logger().Errorf("public: load seats of hall %d: %v", id, err)
		return errorJSON(c, http.StatusInternalServerError, "could not load seats")
	}
	if seats == nil {
		seats = []model.Seat{}
	}
	return c.JSON(http.StatusOK, SeatMapResponse{
		HallID:    hall.ID,
		Name:      hall.Name,
		SeatCount: len(seats),
		Seats:     seats,
	})
}
