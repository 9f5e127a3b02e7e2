package layout

import "github.com/iliyamo/hall-config-editor/internal/model"

// Conflict names two seats that ended up on the same coordinates.
type Conflict struct {
	First  string `json:"first"`
	Second string `json:"second"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Conflicts lists every pair of coincident seats in input order.  The grid
// does not prevent overlap; callers use this to warn the owner.
func Conflicts(seats []model.Seat) []Conflict {
	type point struct{ x, y int }
	seen := make(map[point][]string, len(seats))
	var out []Conflict
	for _, s := range seats {
		p := point{s.XCoord, s.YCoord}
		for _, prev := range seen[p] {
			out = append(out, Conflict{First: prev, Second: s.SeatNumber, X: p.x, Y: p.y})
		}
		seen[p] = append(seen[p], s.SeatNumber)
	}
	return out
}
