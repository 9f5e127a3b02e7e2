package model

import "time"

// Hall is the parent entity of a seat map.  Halls belong to an owner and
// are created through the onboarding wizard.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the hall owner.
//  Name        – hall name, unique per owner.
//  Description – optional description of the hall.
//  Capacity    – planned number of seats (nil if unspecified).
//  IsActive    – whether the hall is active.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hall struct {
	ID          uint64    `json:"id"`                    // halls.id
	OwnerID     uint64    `json:"owner_id"`              // halls.owner_id
	Name        string    `json:"name"`                  // halls.name
	Description *string   `json:"description,omitempty"` // halls.description (nullable)
	Capacity    *uint32   `json:"capacity,omitempty"`    // halls.capacity (nullable)
	IsActive    bool      `json:"is_active"`             // halls.is_active
	CreatedAt   time.Time `json:"created_at"`            // halls.created_at
	UpdatedAt   time.Time `json:"updated_at"`            // halls.updated_at
}

// Pricing holds the base price configuration collected by the onboarding wizard.
type Pricing struct {
	BasePrice   float64  `json:"base_price"`
	Currency    string   `json:"currency"`
	HourlyRate  bool     `json:"hourly_rate"`
	WeekendRate *float64 `json:"weekend_rate,omitempty"`
}

// Location is the postal address and coordinates of a hall.
type Location struct {
	Address   string   `json:"address"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
