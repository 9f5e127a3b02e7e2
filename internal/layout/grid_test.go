package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/model"
)

func testGrid() Grid {
	return NewGrid(config.EditorConfig{
		CanvasWidth:  800,
		CanvasHeight: 600,
		SeatSize:     40,
		GridUnit:     20,
		DefaultX:     20,
		DefaultY:     20,
	})
}

func TestPlaceNew(t *testing.T) {
	g := testGrid()
	s := g.PlaceNew(7, "A1")
	if s.HallID != 7 || s.SeatNumber != "A1" {
		t.Errorf("Expected hall 7 seat A1, got %d %q", s.HallID, s.SeatNumber)
	}
	if s.XCoord != 20 || s.YCoord != 20 {
		t.Errorf("Expected default position (20,20), got (%d,%d)", s.XCoord, s.YCoord)
	}
	if s.ID != nil {
		t.Errorf("Expected no persistent id, got %d", *s.ID)
	}
	if s.Status != model.SeatAvailable || s.SpaceType != model.SpaceStandard {
		t.Errorf("Expected default classification, got %q %q", s.Status, s.SpaceType)
	}
}

func TestReposition(t *testing.T) {
	g := testGrid()
	base := model.Seat{SeatNumber: "A1", XCoord: 100, YCoord: 100}
	tests := []struct {
		name  string
		move  Move
		wantX int
		wantY int
	}{
		{"Snap down", By(9, 9), 100, 100},
		{"Snap half up", By(10, 10), 120, 120},
		{"Snap half away from zero", By(-10, -10), 100, 100},
		{"Snap back", By(-11, -11), 80, 80},
		{"Absolute point", To(333, 47), 340, 40},
		{"Left of canvas", To(-500, 10), 0, 20},
		{"Past right edge", To(799, 599), 760, 560},
		{"Far outside", By(1e9, -1e9), 760, 0},
		{"Infinite", To(math.Inf(1), math.Inf(-1)), 760, 0},
		{"NaN", To(math.NaN(), 0), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Reposition(base, tt.move)
			if got.XCoord != tt.wantX || got.YCoord != tt.wantY {
				t.Errorf("Expected (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, got.XCoord, got.YCoord)
			}
		})
	}
	if base.XCoord != 100 || base.YCoord != 100 {
		t.Errorf("Expected input seat untouched, got (%d,%d)", base.XCoord, base.YCoord)
	}
}

func TestRepositionAlwaysInBounds(t *testing.T) {
	grids := []Grid{
		testGrid(),
		NewGrid(config.EditorConfig{CanvasWidth: 515, CanvasHeight: 333, SeatSize: 37, GridUnit: 15}),
		NewGrid(config.EditorConfig{CanvasWidth: 30, CanvasHeight: 30, SeatSize: 50, GridUnit: 7}),
	}
	rng := rand.New(rand.NewSource(42))
	for gi, g := range grids {
		s := g.PlaceNew(1, "A1")
		for i := 0; i < 5000; i++ {
			dx := (rng.Float64() - 0.5) * 4000
			dy := (rng.Float64() - 0.5) * 4000
			var m Move
			if i%2 == 0 {
				m = By(dx, dy)
			} else {
				m = To(dx, dy)
			}
			s = g.Reposition(s, m)
			if !g.InBounds(s) {
				t.Fatalf("grid %d step %d: position (%d,%d) out of bounds or off grid", gi, i, s.XCoord, s.YCoord)
			}
			if s.XCoord+g.SeatSize > g.CanvasWidth && s.XCoord != 0 {
				t.Fatalf("grid %d step %d: seat crosses right edge at %d", gi, i, s.XCoord)
			}
			if s.YCoord+g.SeatSize > g.CanvasHeight && s.YCoord != 0 {
				t.Fatalf("grid %d step %d: seat crosses bottom edge at %d", gi, i, s.YCoord)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	g := testGrid()
	got := g.Normalize(model.Seat{XCoord: 905, YCoord: -3})
	if got.XCoord != 760 || got.YCoord != 0 {
		t.Errorf("Expected (760,0), got (%d,%d)", got.XCoord, got.YCoord)
	}
}

func TestConflicts(t *testing.T) {
	seats := []model.Seat{
		{SeatNumber: "A1", XCoord: 0, YCoord: 0},
		{SeatNumber: "A2", XCoord: 40, YCoord: 0},
		{SeatNumber: "A3", XCoord: 0, YCoord: 0},
		{SeatNumber: "A4", XCoord: 0, YCoord: 0},
	}
	got := Conflicts(seats)
	if len(got) != 3 {
		t.Fatalf("Expected 3 conflicts, got %d: %+v", len(got), got)
	}
	if got[0].First != "A1" || got[0].Second != "A3" {
		t.Errorf("Expected A1/A3 first, got %s/%s", got[0].First, got[0].Second)
	}
	if len(Conflicts(seats[:2])) != 0 {
		t.Errorf("Expected no conflicts for distinct seats")
	}
}
