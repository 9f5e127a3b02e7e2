// Package layout places and moves seat objects on a hall's bounded canvas.
// Every position it returns is aligned to the grid unit and keeps the whole
// seat footprint inside the canvas.
package layout

import (
	"math"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/model"
)

// Grid holds the canvas constants.  The zero value is not usable; build it
// with NewGrid.
type Grid struct {
	CanvasWidth  int
	CanvasHeight int
	SeatSize     int
	Unit         int
	DefaultX     int
	DefaultY     int
}

// NewGrid builds a Grid from the editor configuration.
func NewGrid(cfg config.EditorConfig) Grid {
	unit := cfg.GridUnit
	if unit < 1 {
		unit = 1
	}
	g := Grid{
		CanvasWidth:  cfg.CanvasWidth,
		CanvasHeight: cfg.CanvasHeight,
		SeatSize:     cfg.SeatSize,
		Unit:         unit,
	}
	g.DefaultX = g.clamp(g.snap(float64(cfg.DefaultX)), g.CanvasWidth)
	g.DefaultY = g.clamp(g.snap(float64(cfg.DefaultY)), g.CanvasHeight)
	return g
}

// Move is a drag gesture: either a delta relative to the seat's current
// position or an absolute drop point.
type Move struct {
	X, Y     float64
	Relative bool
}

// By returns a relative move.
func By(dx, dy float64) Move { return Move{X: dx, Y: dy, Relative: true} }

// To returns an absolute move.
func To(x, y float64) Move { return Move{X: x, Y: y} }

// PlaceNew creates a seat at the default position with default
// classification.  Uniqueness of number must be checked by the caller.
func (g Grid) PlaceNew(hallID uint64, number string) model.Seat {
	return model.Seat{
		HallID:     hallID,
		SeatNumber: number,
		XCoord:     g.DefaultX,
		YCoord:     g.DefaultY,
		SpaceType:  model.SpaceStandard,
		Status:     model.SeatAvailable,
	}
}

// Reposition returns a copy of s moved by m.  The candidate point is snapped
// to the grid and then clamped into the canvas; out-of-canvas drops are
// corrected, never rejected.
func (g Grid) Reposition(s model.Seat, m Move) model.Seat {
	x, y := m.X, m.Y
	if m.Relative {
		x += float64(s.XCoord)
		y += float64(s.YCoord)
	}
	s.XCoord = g.clamp(g.snap(x), g.CanvasWidth)
	s.YCoord = g.clamp(g.snap(y), g.CanvasHeight)
	return s
}

// Normalize snaps and clamps the stored coordinates of s.  Used for seats
// coming from the properties panel or from storage.
func (g Grid) Normalize(s model.Seat) model.Seat {
	return g.Reposition(s, To(float64(s.XCoord), float64(s.YCoord)))
}

// InBounds reports whether s sits on a grid line fully inside the canvas.
func (g Grid) InBounds(s model.Seat) bool {
	return s.XCoord >= 0 && s.XCoord <= g.maxCoord(g.CanvasWidth) && s.XCoord%g.Unit == 0 &&
		s.YCoord >= 0 && s.YCoord <= g.maxCoord(g.CanvasHeight) && s.YCoord%g.Unit == 0
}

// snap rounds v to the nearest multiple of the unit, halves away from zero.
func (g Grid) snap(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return math.MaxInt32
		}
		return math.MinInt32
	}
	n := math.Round(v / float64(g.Unit))
	if n > math.MaxInt32/float64(g.Unit) {
		return math.MaxInt32
	}
	if n < math.MinInt32/float64(g.Unit) {
		return math.MinInt32
	}
	return int(n) * g.Unit
}

// clamp bounds v to [0, maxCoord(dim)].
func (g Grid) clamp(v, dim int) int {
	if v < 0 {
		return 0
	}
	if hi := g.maxCoord(dim); v > hi {
		return hi
	}
	return v
}

// maxCoord is the last grid line at which a seat still fits on the canvas.
// When dim-SeatSize is not a multiple of the unit the bound is rounded down
// so that clamped positions stay aligned.
func (g Grid) maxCoord(dim int) int {
	hi := dim - g.SeatSize
	if hi < 0 {
		return 0
	}
	return hi - hi%g.Unit
}
