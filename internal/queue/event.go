// Package queue defines the seatmap.saved message and its background
// consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// SeatMapSavedQueue is the durable queue seat map saves are published to.
const SeatMapSavedQueue = "seatmap.saved"

// SeatMapSavedEvent is published after an owner's seat map and shift
// schedule were persisted.  It carries enough to audit the change without
// querying the primary database.
type SeatMapSavedEvent struct {
	EventID    string `json:"event_id"`
	OwnerID    uint64 `json:"owner_id"`
	HallID     uint64 `json:"hall_id"`
	Generation uint64 `json:"generation"`
	SeatCount  int    `json:"seat_count"`
	ShiftCount int    `json:"shift_count"`
	SavedAt    string `json:"saved_at"`
}

// NewSeatMapSavedEvent stamps a fresh event id and the current UTC time.
func NewSeatMapSavedEvent(ownerID, hallID, generation uint64, seats, shifts int) SeatMapSavedEvent {
	return SeatMapSavedEvent{
		EventID:    uuid.NewString(),
		OwnerID:    ownerID,
		HallID:     hallID,
		Generation: generation,
		SeatCount:  seats,
		ShiftCount: shifts,
		SavedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
