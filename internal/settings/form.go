// Package settings holds the owner's preferences form.  Updates are
// auto-saved: every accepted change notifies a debouncer which later calls
// Save.
package settings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

var (
	ErrInvalidCurrency = errors.New("currency must be a three letter code")
	ErrInvalidTimezone = errors.New("unknown timezone")
)

// Store loads and persists settings.
type Store interface {
	GetSettings(ctx context.Context, ownerID uint64) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error
}

// Notifier is told about form changes; autosave.Coordinator implements it.
type Notifier interface {
	SuppressNext()
	Changed()
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	NotifyEmail         *bool   `json:"notify_email"`
	NotifySMS           *bool   `json:"notify_sms"`
	AutoConfirmBookings *bool   `json:"auto_confirm_bookings"`
	Currency            *string `json:"currency"`
	Timezone            *string `json:"timezone"`
}

// Form is one owner's settings form.
type Form struct {
	ownerID  uint64
	store    Store
	pipeline *resilient.Pipeline

	mu       sync.Mutex
	notifier Notifier
	current  model.Settings
	dirty    bool
	loaded   bool
	lastErr  string
}

// New returns an empty form for ownerID.
func New(ownerID uint64, store Store, pipeline *resilient.Pipeline) *Form {
	return &Form{
		ownerID:  ownerID,
		store:    store,
		pipeline: pipeline,
		current:  model.Settings{OwnerID: ownerID, Currency: "USD", Timezone: "UTC"},
	}
}

// SetNotifier attaches the auto-save debouncer.
func (f *Form) SetNotifier(n Notifier) {
	f.mu.Lock()
	f.notifier = n
	f.mu.Unlock()
}

// Load fetches stored settings.  Populating the form is not a user change,
// so the next change event is suppressed.
func (f *Form) Load(ctx context.Context) error {
	var s model.Settings
	err := f.pipeline.Run(ctx, "load settings", func(ctx context.Context) error {
		var err error
		s, err = f.store.GetSettings(ctx, f.ownerID)
		return err
	})
	f.mu.Lock()
	if err != nil {
		f.lastErr = resilient.Message(err, "load settings")
		f.mu.Unlock()
		return err
	}
	s.OwnerID = f.ownerID
	f.current = s
	f.dirty = false
	f.loaded = true
	f.lastErr = ""
	n := f.notifier
	f.mu.Unlock()

	if n != nil {
		n.SuppressNext()
		n.Changed()
	}
	return nil
}

// Update applies p and notifies the debouncer when anything changed.
func (f *Form) Update(p Patch) (model.Settings, error) {
	if p.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*p.Currency))
		if len(c) != 3 {
			return model.Settings{}, ErrInvalidCurrency
		}
		p.Currency = &c
	}
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil || *p.Timezone == "" {
			return model.Settings{}, ErrInvalidTimezone
		}
	}

	f.mu.Lock()
	next := f.current
	if p.NotifyEmail != nil {
		next.NotifyEmail = *p.NotifyEmail
	}
	if p.NotifySMS != nil {
		next.NotifySMS = *p.NotifySMS
	}
	if p.AutoConfirmBookings != nil {
		next.AutoConfirmBookings = *p.AutoConfirmBookings
	}
	if p.Currency != nil {
		next.Currency = *p.Currency
	}
	if p.Timezone != nil {
		next.Timezone = *p.Timezone
	}
	if next == f.current {
		f.mu.Unlock()
		return next, nil
	}
	f.current = next
	f.dirty = true
	n := f.notifier
	f.mu.Unlock()

	if n != nil {
		n.Changed()
	}
	return next, nil
}

// Save persists the current values.  It is the debouncer's save function
// and returns resilient.ErrNothingToSave when nothing changed.
func (f *Form) Save(ctx context.Context) error {
	f.mu.Lock()
	if !f.dirty {
		f.mu.Unlock()
		return resilient.ErrNothingToSave
	}
	snap := f.current
	f.mu.Unlock()

	err := f.pipeline.Run(ctx, "save settings", func(ctx context.Context) error {
		return f.store.SaveSettings(ctx, snap)
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastErr = resilient.Message(err, "save settings")
		return err
	}
	f.lastErr = ""
	if f.current == snap {
		f.dirty = false
	}
	return nil
}

// Loaded reports whether stored settings have been fetched once.
func (f *Form) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// View is the form state returned to the portal.
type View struct {
	Settings  model.Settings `json:"settings"`
	Dirty     bool           `json:"dirty"`
	LastError string         `json:"last_error,omitempty"`
}

// View returns a copy of the form state.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{Settings: f.current, Dirty: f.dirty, LastError: f.lastErr}
}
