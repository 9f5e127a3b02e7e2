// Package editor owns the in-memory draft of one hall's seat map and shift
// schedule.  Every mutation either succeeds and marks the draft dirty or
// fails with a specific reason and leaves the draft unchanged.
//
// Loads and saves are tagged with the selection generation at issue time;
// responses that come back after the owner switched halls are dropped.
package editor

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/iliyamo/hall-config-editor/internal/layout"
	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
	"github.com/iliyamo/hall-config-editor/internal/validate"
)

// Backend is the persistence collaborator.  Failures should be
// *resilient.StatusError values so the pipeline can classify them.
type Backend interface {
	FetchSeats(ctx context.Context, hallID uint64) ([]model.Seat, error)
	SaveSeats(ctx context.Context, hallID uint64, seats []model.Seat) (model.SaveSeatsResult, error)
	DeleteSeatRemote(ctx context.Context, hallID, seatID uint64) (model.DeleteResult, error)
	FetchShiftSchedule(ctx context.Context, hallID uint64) (model.OpeningHours, error)
	SaveShiftSchedule(ctx context.Context, hallID uint64, hours model.OpeningHours) (model.SaveScheduleResult, error)
	FetchDefaultShifts(ctx context.Context) ([]model.Shift, error)
	FetchAmenities(ctx context.Context, hallID uint64) ([]string, error)
}

// Draft is the unsaved working state for the selected hall.
type Draft struct {
	HallID            uint64
	Seats             []model.Seat
	Shifts            []model.Shift
	Amenities         []string
	HasUnsavedChanges bool
}

// Saved describes a completed save or remote seat delete; passed to the
// OnSaved hook.
type Saved struct {
	HallID     uint64
	Generation uint64
	SeatCount  int
	ShiftCount int
}

// SwitchRequest answers whether switching to HallID would discard edits.
type SwitchRequest struct {
	HallID  uint64 `json:"hall_id"`
	Pending bool   `json:"pending"`
}

// Editor is safe for concurrent use; it is the only writer of its draft.
type Editor struct {
	backend  Backend
	grid     layout.Grid
	pipeline *resilient.Pipeline
	priceMin float64
	priceMax float64
	onSaved  func(Saved)

	mu         sync.Mutex
	onChange   func()
	phase      Phase
	draft      Draft
	generation uint64
	revision   uint64 // bumped by every committed mutation
	inFlight   int
	selected   string
	lastErr    string
}

// Option configures an Editor.
type Option func(*Editor)

// WithPriceRange bounds custom seat prices.
func WithPriceRange(min, max float64) Option {
	return func(e *Editor) { e.priceMin, e.priceMax = min, max }
}

// WithSavedHook registers a callback run after each successful save.
func WithSavedHook(fn func(Saved)) Option {
	return func(e *Editor) { e.onSaved = fn }
}

// New constructs an Editor and panics if a dependency is nil.
func New(backend Backend, grid layout.Grid, pipeline *resilient.Pipeline, opts ...Option) *Editor {
	if backend == nil || pipeline == nil {
		panic("nil dependency passed to editor.New")
	}
	e := &Editor{
		backend:  backend,
		grid:     grid,
		pipeline: pipeline,
		priceMax: 1e9,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetChangeHook registers the callback invoked after every committed
// mutation, typically an auto-save coordinator's Changed.  Loading a hall
// never calls it.
func (e *Editor) SetChangeHook(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// RequestSwitch reports whether selecting hallID would throw away unsaved
// edits.  Callers ask the owner to confirm when Pending is true.
func (e *Editor) RequestSwitch(hallID uint64) SwitchRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	pending := e.phase != Uninitialized && e.draft.HallID != hallID && e.draft.HasUnsavedChanges
	return SwitchRequest{HallID: hallID, Pending: pending}
}

// SelectHall discards the current draft unconditionally and loads hallID.
// Editing is disabled until the fetch resolves.  If another SelectHall
// overtakes this one, its result is dropped and nil is returned.
func (e *Editor) SelectHall(ctx context.Context, hallID uint64) error {
	e.mu.Lock()
	e.phase, _ = Transition(e.phase, EventSelect)
	e.generation++
	gen := e.generation
	e.draft = Draft{HallID: hallID}
	e.inFlight = 0
	e.selected = ""
	e.lastErr = ""
	e.mu.Unlock()

	var seats []model.Seat
	err := e.pipeline.Run(ctx, "load seats", func(ctx context.Context) error {
		var err error
		seats, err = e.backend.FetchSeats(ctx, hallID)
		return err
	})
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.generation {
			log.Printf("editor: dropping stale seat load for hall %d", hallID)
			return nil
		}
		e.phase, _ = Transition(e.phase, EventLoadFailed)
		e.draft = Draft{}
		e.lastErr = resilient.Message(err, "load seats")
		return err
	}

	shifts := e.loadShifts(ctx, hallID)

	var amenities []string
	if err := e.pipeline.Run(ctx, "load amenities", func(ctx context.Context) error {
		var err error
		amenities, err = e.backend.FetchAmenities(ctx, hallID)
		return err
	}); err != nil {
		log.Printf("editor: amenities unavailable for hall %d: %v", hallID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		log.Printf("editor: dropping stale load for hall %d", hallID)
		return nil
	}
	e.phase, _ = Transition(e.phase, EventLoaded)
	e.draft = Draft{
		HallID:    hallID,
		Seats:     seats,
		Shifts:    shifts,
		Amenities: amenities,
	}
	return nil
}

// loadShifts fetches the hall schedule and falls back to the default
// shifts when none exists yet or the fetch fails.
func (e *Editor) loadShifts(ctx context.Context, hallID uint64) []model.Shift {
	var hours model.OpeningHours
	err := e.pipeline.Run(ctx, "load shift schedule", func(ctx context.Context) error {
		var err error
		hours, err = e.backend.FetchShiftSchedule(ctx, hallID)
		return err
	})
	if err == nil && len(hours.Shifts) > 0 {
		return hours.Shifts
	}
	if err != nil {
		log.Printf("editor: shift schedule unavailable for hall %d, using defaults: %v", hallID, err)
	}
	var defaults []model.Shift
	if err := e.pipeline.Run(ctx, "load default shifts", func(ctx context.Context) error {
		var err error
		defaults, err = e.backend.FetchDefaultShifts(ctx)
		return err
	}); err != nil {
		log.Printf("editor: default shifts unavailable: %v", err)
		return nil
	}
	out := make([]model.Shift, len(defaults))
	for i, s := range defaults {
		s.ID = nil
		out[i] = s
	}
	return out
}

// AddSeat appends a new seat at the default position.
func (e *Editor) AddSeat(number string) (model.Seat, error) {
	n := strings.TrimSpace(number)
	if n == "" {
		return model.Seat{}, ErrEmptyIdentifier
	}
	if !validate.FitsColumn(n, validate.MaxSeatNumberLen) {
		return model.Seat{}, ErrIdentifierTooLong
	}
	e.mu.Lock()
	if !validate.IsSeatNumberUnique(n, e.draft.Seats, nil) {
		e.mu.Unlock()
		return model.Seat{}, ErrDuplicateIdentifier
	}
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return model.Seat{}, err
	}
	seat := e.grid.PlaceNew(e.draft.HallID, n)
	e.draft.Seats = append(e.draft.Seats, seat)
	e.commitAndUnlock()
	return seat, nil
}

// MoveSeat applies a drag gesture to the seat with the given number.  The
// result is always snapped and inside the canvas.
func (e *Editor) MoveSeat(number string, m layout.Move) (model.Seat, error) {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return model.Seat{}, err
	}
	i := e.seatIndexLocked(number)
	if i < 0 {
		e.mu.Unlock()
		return model.Seat{}, ErrSeatNotFound
	}
	cur := e.draft.Seats[i]
	moved := e.grid.Reposition(cur, m)
	if moved.XCoord == cur.XCoord && moved.YCoord == cur.YCoord {
		e.mu.Unlock()
		return cloneSeat(moved), nil
	}
	e.draft.Seats[i] = moved
	e.commitAndUnlock()
	return cloneSeat(moved), nil
}

// SelectSeat marks a seat as the one shown in the properties panel.
func (e *Editor) SelectSeat(number string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seatIndexLocked(number) < 0 {
		return ErrSeatNotFound
	}
	e.selected = number
	return nil
}

// UpdateSeatProperties replaces the seat with the same seat number.  The
// persistent id and hall are kept from the draft; coordinates are
// normalized onto the grid.  Clears the selection.
func (e *Editor) UpdateSeatProperties(updated model.Seat) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	i := e.seatIndexLocked(updated.SeatNumber)
	if i < 0 {
		e.mu.Unlock()
		return ErrSeatNotFound
	}
	cur := e.draft.Seats[i]
	if updated.Status == "" {
		updated.Status = cur.Status
	}
	if !updated.Status.Valid() {
		e.mu.Unlock()
		return ErrInvalidStatus
	}
	switch updated.SpaceType = strings.ToUpper(strings.TrimSpace(updated.SpaceType)); updated.SpaceType {
	case "":
		updated.SpaceType = cur.SpaceType
	case model.SpaceStandard, model.SpaceVIP, model.SpaceAccessible:
	default:
		e.mu.Unlock()
		return ErrInvalidSpaceType
	}
	if !validate.PriceInRange(updated.CustomPrice, e.priceMin, e.priceMax) {
		e.mu.Unlock()
		return ErrPriceOutOfRange
	}
	updated.ID = cur.ID
	updated.HallID = cur.HallID
	e.draft.Seats[i] = e.grid.Normalize(cloneSeat(updated))
	e.selected = ""
	e.commitAndUnlock()
	return nil
}

// DeleteSeat removes a seat.  The owner must have confirmed beforehand.
// A seat that was already persisted is deleted remotely first; if that
// fails the draft is left unchanged.  A seat the backend no longer has
// counts as deleted.
func (e *Editor) DeleteSeat(ctx context.Context, number string) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	i := e.seatIndexLocked(number)
	if i < 0 {
		e.mu.Unlock()
		return ErrSeatNotFound
	}
	seat := e.draft.Seats[i]
	gen, hallID := e.generation, e.draft.HallID
	e.mu.Unlock()

	if seat.ID != nil {
		err := e.pipeline.Run(ctx, "delete seat", func(ctx context.Context) error {
			res, err := e.backend.DeleteSeatRemote(ctx, hallID, *seat.ID)
			if err != nil {
				return err
			}
			if !res.Success {
				return resilient.Status(http.StatusUnprocessableEntity, res.Message)
			}
			return nil
		})
		if isNotFound(err) {
			log.Printf("editor: seat %d of hall %d already gone remotely", *seat.ID, hallID)
			err = nil
		}
		if err != nil {
			e.mu.Lock()
			if gen == e.generation {
				e.lastErr = resilient.Message(err, "delete seat")
			}
			e.mu.Unlock()
			return err
		}
	}

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		log.Printf("editor: dropping stale delete of seat %q for hall %d", number, hallID)
		return nil
	}
	if i = e.seatIndexLocked(number); i >= 0 {
		e.draft.Seats = append(e.draft.Seats[:i:i], e.draft.Seats[i+1:]...)
	}
	if e.selected == number {
		e.selected = ""
	}
	var hook func(Saved)
	var done Saved
	if seat.ID != nil {
		hook = e.onSaved
		done = Saved{HallID: hallID, Generation: gen, SeatCount: len(e.draft.Seats), ShiftCount: len(e.draft.Shifts)}
	}
	e.commitAndUnlock()

	if hook != nil {
		hook(done)
	}
	return nil
}

// isNotFound reports whether a remote call failed because the record is
// already gone.
func isNotFound(err error) bool {
	var se *resilient.StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// AddOrUpdateShift appends candidate, or replaces the shift at
// editingIndex when it is non-nil.  The full proposed schedule is checked
// for overlaps before anything is committed.
func (e *Editor) AddOrUpdateShift(candidate model.Shift, editingIndex *int) error {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.StartTime = strings.TrimSpace(candidate.StartTime)
	candidate.EndTime = strings.TrimSpace(candidate.EndTime)
	if candidate.Name == "" || candidate.StartTime == "" || candidate.EndTime == "" {
		return ErrIncompleteFields
	}
	if !validate.FitsColumn(candidate.Name, validate.MaxShiftNameLen) {
		return ErrNameTooLong
	}
	iv, err := validate.ShiftInterval(candidate)
	if err != nil {
		return ErrInvalidTime
	}
	if iv.End <= iv.Start {
		return ErrInvalidTimeRange
	}

	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	proposed := append([]model.Shift(nil), e.draft.Shifts...)
	if editingIndex != nil {
		i := *editingIndex
		if i < 0 || i >= len(proposed) {
			e.mu.Unlock()
			return ErrShiftNotFound
		}
		if candidate.ID == nil {
			candidate.ID = proposed[i].ID
		}
		proposed[i] = candidate
	} else {
		proposed = append(proposed, candidate)
	}
	if !validate.ShiftsNonOverlapping(proposed) {
		e.mu.Unlock()
		return ErrOverlapDetected
	}
	e.draft.Shifts = proposed
	e.commitAndUnlock()
	return nil
}

// DeleteShift removes the shift at index.  The owner must have confirmed.
func (e *Editor) DeleteShift(index int) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if index < 0 || index >= len(e.draft.Shifts) {
		e.mu.Unlock()
		return ErrShiftNotFound
	}
	e.draft.Shifts = append(e.draft.Shifts[:index:index], e.draft.Shifts[index+1:]...)
	e.commitAndUnlock()
	return nil
}

// editableLocked returns the reason mutations are refused, if any.
func (e *Editor) editableLocked() error {
	if e.phase == Uninitialized || e.draft.HallID == 0 {
		return ErrNoParentSelected
	}
	if !Editable(e.phase) {
		return ErrNotEditable
	}
	return nil
}

// commitAndUnlock marks the draft dirty, releases the lock and notifies the
// change hook.
func (e *Editor) commitAndUnlock() {
	e.draft.HasUnsavedChanges = true
	e.revision++
	hook := e.onChange
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (e *Editor) seatIndexLocked(number string) int {
	for i := range e.draft.Seats {
		if e.draft.Seats[i].SeatNumber == number {
			return i
		}
	}
	return -1
}
