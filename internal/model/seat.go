package model

// SeatStatus is the lifecycle state of a seat on the map.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatBooked      SeatStatus = "booked"
	SeatLocked      SeatStatus = "locked"
	SeatMaintenance SeatStatus = "maintenance"
)

// Valid reports whether s is one of the four lifecycle values.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatBooked, SeatLocked, SeatMaintenance:
		return true
	}
	return false
}

// Space types offered by the properties panel.  The catalog itself lives
// with the portal; these are the values the seat map understands.
const (
	SpaceStandard   = "STANDARD"
	SpaceVIP        = "VIP"
	SpaceAccessible = "ACCESSIBLE"
)

// Seat describes one seat object placed on a hall's canvas.
//
// Fields:
//  ID          – seats.id, nil until the seat is saved for the first time.
//  HallID      – hall the seat belongs to.
//  SeatNumber  – human facing label, unique per hall (case-sensitive).
//  XCoord      – left edge on the canvas, snapped to the grid.
//  YCoord      – top edge on the canvas, snapped to the grid.
//  SpaceType   – STANDARD, VIP or ACCESSIBLE.
//  CustomPrice – optional per-seat price override.
//  LadiesOnly  – restricts the seat to female customers.
//  Status      – available, booked, locked or maintenance.
type Seat struct {
	ID          *uint64    `json:"id,omitempty"`           // seats.id
	HallID      uint64     `json:"hall_id"`                // seats.hall_id
	SeatNumber  string     `json:"seat_number"`            // seats.seat_number
	XCoord      int        `json:"x_coord"`                // seats.x_coord
	YCoord      int        `json:"y_coord"`                // seats.y_coord
	SpaceType   string     `json:"space_type,omitempty"`   // seats.space_type
	CustomPrice *float64   `json:"custom_price,omitempty"` // seats.custom_price (nullable)
	LadiesOnly  bool       `json:"ladies_only"`            // seats.ladies_only
	Status      SeatStatus `json:"status"`                 // seats.status
}

// SaveSeatsResult is returned by the persistence collaborator after a bulk seat save.
type SaveSeatsResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Seats     []Seat `json:"seats"`
	SeatCount int    `json:"seat_count"`
}

// DeleteResult is returned after a single remote delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
