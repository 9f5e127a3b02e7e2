package model

// Shift is a named wall-clock interval within a single day.  StartTime and
// EndTime use the HH:mm format; overnight shifts are not supported.
type Shift struct {
	ID        *uint64 `json:"id,omitempty"` // shifts.id
	Name      string  `json:"name"`         // shifts.name
	StartTime string  `json:"start_time"`   // shifts.start_time (HH:mm)
	EndTime   string  `json:"end_time"`     // shifts.end_time (HH:mm)
}

// OpeningHours is the shift schedule of a hall.
type OpeningHours struct {
	HallID uint64  `json:"hall_id"`
	Shifts []Shift `json:"shifts"`
}

// SaveScheduleResult is returned by the persistence collaborator after a
// shift schedule save.
type SaveScheduleResult struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message,omitempty"`
	OpeningHours OpeningHours `json:"opening_hours"`
}
