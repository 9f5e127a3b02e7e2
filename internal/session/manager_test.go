package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/editor"
	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/settings"
)

type memBackend struct {
	mu       sync.Mutex
	seats    map[uint64][]model.Seat
	settings model.Settings
	saves    int
}

func (b *memBackend) FetchSeats(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Seat(nil), b.seats[hallID]...), nil
}

func (b *memBackend) SaveSeats(ctx context.Context, hallID uint64, seats []model.Seat) (model.SaveSeatsResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves++
	b.seats[hallID] = seats
	return model.SaveSeatsResult{Success: true, Seats: seats, SeatCount: len(seats)}, nil
}

func (b *memBackend) DeleteSeatRemote(ctx context.Context, hallID, seatID uint64) (model.DeleteResult, error) {
	return model.DeleteResult{Success: true}, nil
}

func (b *memBackend) FetchShiftSchedule(ctx context.Context, hallID uint64) (model.OpeningHours, error) {
	return model.OpeningHours{HallID: hallID}, nil
}

func (b *memBackend) SaveShiftSchedule(ctx context.Context, hallID uint64, hours model.OpeningHours) (model.SaveScheduleResult, error) {
	return model.SaveScheduleResult{Success: true, OpeningHours: hours}, nil
}

func (b *memBackend) FetchDefaultShifts(ctx context.Context) ([]model.Shift, error) { return nil, nil }

func (b *memBackend) FetchAmenities(ctx context.Context, hallID uint64) ([]string, error) {
	return nil, nil
}

func (b *memBackend) CreateHall(ctx context.Context, h *model.Hall) error { h.ID = 1; return nil }

func (b *memBackend) UpdateHall(ctx context.Context, h *model.Hall) error { return nil }

func (b *memBackend) SavePricing(ctx context.Context, hallID uint64, p model.Pricing) error {
	return nil
}

func (b *memBackend) SaveLocation(ctx context.Context, hallID uint64, l model.Location) error {
	return nil
}

func (b *memBackend) GetSettings(ctx context.Context, ownerID uint64) (model.Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings, nil
}

func (b *memBackend) SaveSettings(ctx context.Context, s model.Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s
	return nil
}

func testConfig() config.EditorConfig {
	return config.EditorConfig{
		CanvasWidth: 800, CanvasHeight: 600, SeatSize: 40, GridUnit: 20,
		PriceMax: 1000, SaveMaxAttempts: 3,
		AutosaveWindow: time.Hour, AutosaveSuccessHold: time.Hour,
	}
}

func TestManagerReusesSessions(t *testing.T) {
	m := NewManager(context.Background(), &memBackend{seats: map[uint64][]model.Seat{}}, testConfig())
	defer m.Close()
	a, b := m.Get(1), m.Get(1)
	if a != b {
		t.Error("Expected the same session for the same owner")
	}
	if m.Get(2) == a {
		t.Error("Expected distinct sessions per owner")
	}
	if a.Wizard() != a.Wizard() {
		t.Error("Expected the wizard to be kept between calls")
	}
	w := a.Wizard()
	if a.RestartWizard() == w {
		t.Error("Expected restart to create a new wizard")
	}
}

func TestEditorChangesScheduleAutosave(t *testing.T) {
	backend := &memBackend{seats: map[uint64][]model.Seat{}}
	var got []editor.Saved
	var owners []uint64
	m := NewManager(context.Background(), backend, testConfig(), WithSavedHook(func(owner uint64, s editor.Saved) {
		owners = append(owners, owner)
		got = append(got, s)
	}))
	s := m.Get(9)

	if err := s.Editor.SelectHall(context.Background(), 4); err != nil {
		t.Fatalf("select hall: %v", err)
	}
	if s.Autosave.Pending() {
		t.Error("Expected loading a hall not to schedule a save")
	}
	if _, err := s.Editor.AddSeat("A1"); err != nil {
		t.Fatalf("add seat: %v", err)
	}
	if !s.Autosave.Pending() {
		t.Fatal("Expected a pending auto-save after an edit")
	}
	if err := s.Autosave.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if backend.saves != 1 || s.Editor.Dirty() {
		t.Errorf("Expected one save and a clean draft, got %d saves dirty=%v", backend.saves, s.Editor.Dirty())
	}
	if len(got) != 1 || owners[0] != 9 || got[0].HallID != 4 {
		t.Errorf("Expected saved hook for owner 9 hall 4, got %v %+v", owners, got)
	}
}

func TestCloseFlushesPendingSaves(t *testing.T) {
	backend := &memBackend{seats: map[uint64][]model.Seat{}}
	m := NewManager(context.Background(), backend, testConfig())
	s := m.Get(1)
	_ = s.Editor.SelectHall(context.Background(), 2)
	_, _ = s.Editor.AddSeat("B1")

	if err := s.Settings.Load(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.SettingsAutosave.Pending() {
		t.Error("Expected loading settings not to schedule a save")
	}
	notify := true
	if _, err := s.Settings.Update(settings.Patch{NotifyEmail: &notify}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	m.Close()
	if len(backend.seats[2]) != 1 {
		t.Errorf("Expected pending seat map flushed on close, got %+v", backend.seats[2])
	}
	if !backend.settings.NotifyEmail || backend.settings.OwnerID != 1 {
		t.Errorf("Expected settings flushed on close, got %+v", backend.settings)
	}
}
