// Package onboarding drives the hall creation wizard: hall details, then
// pricing, then location.  Each step is persisted through the resilient
// pipeline before the wizard advances.
package onboarding

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

// Step identifies the wizard page the owner is on.
type Step string

const (
	StepHall     Step = "hall"
	StepPricing  Step = "pricing"
	StepLocation Step = "location"
	StepDone     Step = "done"
)

var order = []Step{StepHall, StepPricing, StepLocation, StepDone}

var (
	ErrWrongStep       = errors.New("onboarding step is not active")
	ErrNameRequired    = errors.New("hall name is required")
	ErrInvalidPricing  = errors.New("base price must be positive and currency is required")
	ErrAddressRequired = errors.New("address, city and country are required")
	ErrInvalidCoords   = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
)

// Backend persists the records the wizard collects.
type Backend interface {
	CreateHall(ctx context.Context, h *model.Hall) error
	UpdateHall(ctx context.Context, h *model.Hall) error
	SavePricing(ctx context.Context, hallID uint64, p model.Pricing) error
	SaveLocation(ctx context.Context, hallID uint64, l model.Location) error
}

// HallInput is the first step's form.
type HallInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Capacity    *uint32 `json:"capacity"`
}

// State is the read-only view of a wizard.
type State struct {
	ID        string          `json:"id"`
	Step      Step            `json:"step"`
	Hall      *model.Hall     `json:"hall,omitempty"`
	Pricing   *model.Pricing  `json:"pricing,omitempty"`
	Location  *model.Location `json:"location,omitempty"`
	Saving    bool            `json:"saving"`
	LastError string          `json:"last_error,omitempty"`
}

// Wizard holds one owner's onboarding progress.
type Wizard struct {
	id       uuid.UUID
	ownerID  uint64
	backend  Backend
	pipeline *resilient.Pipeline

	mu       sync.Mutex
	step     Step
	hall     *model.Hall
	pricing  *model.Pricing
	location *model.Location
	saving   bool
	lastErr  string
}

// New starts a wizard on the hall step.
func New(ownerID uint64, backend Backend, pipeline *resilient.Pipeline) *Wizard {
	return &Wizard{
		id:       uuid.New(),
		ownerID:  ownerID,
		backend:  backend,
		pipeline: pipeline,
		step:     StepHall,
	}
}

// ID returns the wizard's identifier.
func (w *Wizard) ID() uuid.UUID { return w.id }

// State returns a copy of the wizard's progress.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := State{ID: w.id.String(), Step: w.step, Saving: w.saving, LastError: w.lastErr}
	if w.hall != nil {
		h := *w.hall
		st.Hall = &h
	}
	if w.pricing != nil {
		p := *w.pricing
		st.Pricing = &p
	}
	if w.location != nil {
		l := *w.location
		st.Location = &l
	}
	return st
}

// SubmitHall creates the hall, or updates it when the owner came back to
// this step after it was created.
func (w *Wizard) SubmitHall(ctx context.Context, in HallInput) (model.Hall, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Hall{}, ErrNameRequired
	}
	w.mu.Lock()
	if err := w.beginLocked(StepHall); err != nil {
		w.mu.Unlock()
		return model.Hall{}, err
	}
	h := model.Hall{OwnerID: w.ownerID, Name: name, Description: in.Description, Capacity: in.Capacity, IsActive: true}
	op, call := "create hall", w.backend.CreateHall
	if w.hall != nil {
		h.ID = w.hall.ID
		op, call = "update hall", w.backend.UpdateHall
	}
	w.mu.Unlock()

	err := w.pipeline.Run(ctx, op, func(ctx context.Context) error { return call(ctx, &h) })
	if err := w.finish(StepHall, op, err, func() { w.hall = &h }); err != nil {
		return model.Hall{}, err
	}
	return h, nil
}

// SubmitPricing stores the base pricing for the created hall.
func (w *Wizard) SubmitPricing(ctx context.Context, p model.Pricing) error {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.BasePrice <= 0 || p.Currency == "" || (p.WeekendRate != nil && *p.WeekendRate <= 0) {
		return ErrInvalidPricing
	}
	w.mu.Lock()
	if err := w.beginLocked(StepPricing); err != nil {
		w.mu.Unlock()
		return err
	}
	hallID := w.hall.ID
	w.mu.Unlock()

	err := w.pipeline.Run(ctx, "save pricing", func(ctx context.Context) error {
		return w.backend.SavePricing(ctx, hallID, p)
	})
	return w.finish(StepPricing, "save pricing", err, func() { w.pricing = &p })
}

// SubmitLocation stores the hall address and completes the wizard.
func (w *Wizard) SubmitLocation(ctx context.Context, l model.Location) error {
	l.Address = strings.TrimSpace(l.Address)
	l.City = strings.TrimSpace(l.City)
	l.Country = strings.TrimSpace(l.Country)
	if l.Address == "" || l.City == "" || l.Country == "" {
		return ErrAddressRequired
	}
	if (l.Latitude != nil && (*l.Latitude < -90 || *l.Latitude > 90)) ||
		(l.Longitude != nil && (*l.Longitude < -180 || *l.Longitude > 180)) {
		return ErrInvalidCoords
	}
	w.mu.Lock()
	if err := w.beginLocked(StepLocation); err != nil {
		w.mu.Unlock()
		return err
	}
	hallID := w.hall.ID
	w.mu.Unlock()

	err := w.pipeline.Run(ctx, "save location", func(ctx context.Context) error {
		return w.backend.SaveLocation(ctx, hallID, l)
	})
	return w.finish(StepLocation, "save location", err, func() { w.location = &l })
}

// Back returns to the previous step.  Nothing already persisted is undone.
func (w *Wizard) Back() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saving {
		return w.step, ErrWrongStep
	}
	i := indexOf(w.step)
	if i <= 0 || w.step == StepDone {
		return w.step, ErrWrongStep
	}
	w.step = order[i-1]
	w.lastErr = ""
	return w.step, nil
}

// beginLocked checks the active step and marks a save in progress.
func (w *Wizard) beginLocked(s Step) error {
	if w.step != s || w.saving {
		return ErrWrongStep
	}
	w.saving = true
	return nil
}

// finish records the pipeline result.  On success it runs commit under the
// lock and advances.
func (w *Wizard) finish(s Step, op string, err error, commit func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if err != nil {
		w.lastErr = resilient.Message(err, op)
		return err
	}
	commit()
	w.lastErr = ""
	w.step = order[indexOf(s)+1]
	return nil
}

func indexOf(s Step) int {
	for i, o := range order {
		if o == s {
			return i
		}
	}
	return -1
}
