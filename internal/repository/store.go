package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

// Store is the persistence collaborator of an owner session.  It exposes
// the repositories through the calls the editor, wizard and settings form
// make, translating every failure with StatusFor.
type Store struct {
	Halls     *HallRepo
	Seats     *SeatRepo
	Shifts    *ShiftRepo
	Amenities *AmenityRepo
	Settings  *SettingsRepo
}

// NewStore builds every repository on db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Halls:     NewHallRepo(db),
		Seats:     NewSeatRepo(db),
		Shifts:    NewShiftRepo(db),
		Amenities: NewAmenityRepo(db),
		Settings:  NewSettingsRepo(db),
	}
}

func (s *Store) FetchSeats(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	seats, err := s.Seats.GetByHall(ctx, hallID)
	return seats, StatusFor(err, "")
}

func (s *Store) SaveSeats(ctx context.Context, hallID uint64, seats []model.Seat) (model.SaveSeatsResult, error) {
	saved, err := s.Seats.ReplaceForHall(ctx, hallID, seats)
	if err != nil {
		return model.SaveSeatsResult{}, StatusFor(err, "Seat numbers must be unique within a hall")
	}
	return model.SaveSeatsResult{Success: true, Seats: saved, SeatCount: len(saved)}, nil
}

func (s *Store) DeleteSeatRemote(ctx context.Context, hallID, seatID uint64) (model.DeleteResult, error) {
	err := s.Seats.DeleteByIDAndHall(ctx, seatID, hallID)
	if errors.Is(err, ErrSeatNotFound) {
		return model.DeleteResult{}, StatusFor(err, "Seat no longer exists")
	}
	if err != nil {
		return model.DeleteResult{}, StatusFor(err, "Seat is referenced by existing bookings")
	}
	return model.DeleteResult{Success: true}, nil
}

func (s *Store) FetchShiftSchedule(ctx context.Context, hallID uint64) (model.OpeningHours, error) {
	shifts, err := s.Shifts.GetByHall(ctx, hallID)
	if err != nil {
		return model.OpeningHours{}, StatusFor(err, "")
	}
	return model.OpeningHours{HallID: hallID, Shifts: shifts}, nil
}

func (s *Store) SaveShiftSchedule(ctx context.Context, hallID uint64, hours model.OpeningHours) (model.SaveScheduleResult, error) {
	saved, err := s.Shifts.ReplaceForHall(ctx, hallID, hours.Shifts)
	if err != nil {
		return model.SaveScheduleResult{}, StatusFor(err, "")
	}
	return model.SaveScheduleResult{Success: true, OpeningHours: model.OpeningHours{HallID: hallID, Shifts: saved}}, nil
}

func (s *Store) FetchDefaultShifts(ctx context.Context) ([]model.Shift, error) {
	shifts, err := s.Shifts.ListDefaults(ctx)
	return shifts, StatusFor(err, "")
}

func (s *Store) FetchAmenities(ctx context.Context, hallID uint64) ([]string, error) {
	names, err := s.Amenities.ListByHall(ctx, hallID)
	return names, StatusFor(err, "")
}

func (s *Store) CreateHall(ctx context.Context, h *model.Hall) error {
	return StatusFor(s.Halls.Create(ctx, h), "A hall with this name already exists")
}

func (s *Store) UpdateHall(ctx context.Context, h *model.Hall) error {
	return StatusFor(s.Halls.UpdateByIDAndOwner(ctx, h), "A hall with this name already exists")
}

func (s *Store) SavePricing(ctx context.Context, hallID uint64, p model.Pricing) error {
	return StatusFor(s.Halls.SavePricing(ctx, hallID, p), "")
}

func (s *Store) SaveLocation(ctx context.Context, hallID uint64, l model.Location) error {
	return StatusFor(s.Halls.SaveLocation(ctx, hallID, l), "")
}

func (s *Store) GetSettings(ctx context.Context, ownerID uint64) (model.Settings, error) {
	v, err := s.Settings.Get(ctx, ownerID)
	return v, StatusFor(err, "")
}

func (s *Store) SaveSettings(ctx context.Context, v model.Settings) error {
	return StatusFor(s.Settings.Save(ctx, v), "")
}
