package editor

import (
	"context"
	"log"
	"net/http"

	"github.com/iliyamo/hall-config-editor/internal/layout"
	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

// Save persists the draft through the resilient pipeline.  A clean draft
// returns resilient.ErrNothingToSave without calling the backend.  Edits made while the save is in flight stay dirty and are
// picked up by the next save.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.phase == Uninitialized || e.draft.HallID == 0 {
		e.mu.Unlock()
		return ErrNoParentSelected
	}
	if !e.draft.HasUnsavedChanges {
		e.mu.Unlock()
		return resilient.ErrNothingToSave
	}
	next, err := Transition(e.phase, EventSaveStart)
	if err != nil {
		e.mu.Unlock()
		return ErrNotEditable
	}
	e.phase = next
	e.inFlight++
	gen, rev, hallID := e.generation, e.revision, e.draft.HallID
	seats := cloneSeats(e.draft.Seats)
	shifts := cloneShifts(e.draft.Shifts)
	e.mu.Unlock()

	var savedSeats model.SaveSeatsResult
	var savedHours model.SaveScheduleResult
	op := "save seat map"
	err = e.pipeline.Run(ctx, op, func(ctx context.Context) error {
		res, err := e.backend.SaveSeats(ctx, hallID, seats)
		if err != nil {
			return err
		}
		if !res.Success {
			return resilient.Status(http.StatusUnprocessableEntity, res.Message)
		}
		savedSeats = res
		return nil
	})
	if err == nil {
		op = "save shift schedule"
		err = e.pipeline.Run(ctx, op, func(ctx context.Context) error {
			res, err := e.backend.SaveShiftSchedule(ctx, hallID, model.OpeningHours{HallID: hallID, Shifts: shifts})
			if err != nil {
				return err
			}
			if !res.Success {
				return resilient.Status(http.StatusUnprocessableEntity, res.Message)
			}
			savedHours = res
			return nil
		})
	}

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		log.Printf("editor: dropping stale save response for hall %d", hallID)
		return nil
	}
	e.inFlight--
	if e.inFlight <= 0 {
		e.inFlight = 0
		e.phase, _ = Transition(e.phase, EventSaveDone)
	}
	if err != nil {
		e.lastErr = resilient.Message(err, op)
		e.mu.Unlock()
		return err
	}
	e.lastErr = ""
	mergeSeatIDs(e.draft.Seats, savedSeats.Seats)
	mergeShiftIDs(e.draft.Shifts, savedHours.OpeningHours.Shifts)
	if rev == e.revision {
		e.draft.HasUnsavedChanges = false
	}
	done := Saved{HallID: hallID, Generation: gen, SeatCount: len(seats), ShiftCount: len(shifts)}
	if savedSeats.SeatCount > 0 {
		done.SeatCount = savedSeats.SeatCount
	}
	hook := e.onSaved
	e.mu.Unlock()

	if hook != nil {
		hook(done)
	}
	return nil
}

// mergeSeatIDs copies server-assigned ids onto draft seats, matching on
// seat number.  A stored id replaces a stale one.
func mergeSeatIDs(draft, saved []model.Seat) {
	ids := make(map[string]uint64, len(saved))
	for _, s := range saved {
		if s.ID != nil {
			ids[s.SeatNumber] = *s.ID
		}
	}
	for i := range draft {
		if id, ok := ids[draft[i].SeatNumber]; ok {
			draft[i].ID = &id
		}
	}
}

// mergeShiftIDs does the same for shifts, matching on name and times.
func mergeShiftIDs(draft, saved []model.Shift) {
	type key struct{ name, start, end string }
	ids := make(map[key]uint64, len(saved))
	for _, s := range saved {
		if s.ID != nil {
			ids[key{s.Name, s.StartTime, s.EndTime}] = *s.ID
		}
	}
	for i := range draft {
		if draft[i].ID != nil {
			continue
		}
		if id, ok := ids[key{draft[i].Name, draft[i].StartTime, draft[i].EndTime}]; ok {
			draft[i].ID = &id
		}
	}
}

// Snapshot is a read-only copy of the editor state.
type Snapshot struct {
	HallID            uint64            `json:"hall_id"`
	Phase             string            `json:"phase"`
	Generation        uint64            `json:"generation"`
	Seats             []model.Seat      `json:"seats"`
	Shifts            []model.Shift     `json:"shifts"`
	Amenities         []string          `json:"amenities"`
	HasUnsavedChanges bool              `json:"has_unsaved_changes"`
	SelectedSeat      string            `json:"selected_seat,omitempty"`
	LastError         string            `json:"last_error,omitempty"`
	Conflicts         []layout.Conflict `json:"conflicts,omitempty"`
}

// Snapshot returns a deep copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		HallID:            e.draft.HallID,
		Phase:             e.phase.String(),
		Generation:        e.generation,
		Seats:             cloneSeats(e.draft.Seats),
		Shifts:            cloneShifts(e.draft.Shifts),
		Amenities:         append([]string(nil), e.draft.Amenities...),
		HasUnsavedChanges: e.draft.HasUnsavedChanges,
		SelectedSeat:      e.selected,
		LastError:         e.lastErr,
		Conflicts:         layout.Conflicts(e.draft.Seats),
	}
}

// Phase returns the current lifecycle phase.
func (e *Editor) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Dirty reports whether the draft has unsaved changes.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.HasUnsavedChanges
}

// DismissError clears the last user-visible failure.
func (e *Editor) DismissError() {
	e.mu.Lock()
	e.lastErr = ""
	e.mu.Unlock()
}

func cloneSeat(s model.Seat) model.Seat {
	if s.ID != nil {
		id := *s.ID
		s.ID = &id
	}
	if s.CustomPrice != nil {
		p := *s.CustomPrice
		s.CustomPrice = &p
	}
	return s
}

func cloneSeats(in []model.Seat) []model.Seat {
	out := make([]model.Seat, len(in))
	for i, s := range in {
		out[i] = cloneSeat(s)
	}
	return out
}

func cloneShifts(in []model.Shift) []model.Shift {
	out := make([]model.Shift, len(in))
	for i, s := range in {
		if s.ID != nil {
			id := *s.ID
			s.ID = &id
		}
		out[i] = s
	}
	return out
}
