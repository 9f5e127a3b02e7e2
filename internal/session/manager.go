// Package session keeps one editing session per owner: the seat map
// editor, its auto-save coordinator, the settings form and the onboarding
// wizard.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/iliyamo/hall-config-editor/internal/autosave"
	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/editor"
	"github.com/iliyamo/hall-config-editor/internal/layout"
	"github.com/iliyamo/hall-config-editor/internal/onboarding"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
	"github.com/iliyamo/hall-config-editor/internal/settings"
)

// Backend is everything a session persists through.
type Backend interface {
	editor.Backend
	onboarding.Backend
	settings.Store
}

// SavedFunc is notified after every successful seat map save.
type SavedFunc func(ownerID uint64, saved editor.Saved)

// Session is one owner's working state.
type Session struct {
	OwnerID          uint64
	Editor           *editor.Editor
	Autosave         *autosave.Coordinator
	Settings         *settings.Form
	SettingsAutosave *autosave.Coordinator

	mu       sync.Mutex
	wizard   *onboarding.Wizard
	backend  Backend
	pipeline *resilient.Pipeline
}

// Wizard returns the owner's onboarding wizard, starting one if needed.
func (s *Session) Wizard() *onboarding.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		s.wizard = onboarding.New(s.OwnerID, s.backend, s.pipeline)
	}
	return s.wizard
}

// RestartWizard discards the current wizard and starts a new one.
func (s *Session) RestartWizard() *onboarding.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard = onboarding.New(s.OwnerID, s.backend, s.pipeline)
	return s.wizard
}

func (s *Session) close() {
	for _, c := range []*autosave.Coordinator{s.Autosave, s.SettingsAutosave} {
		if err := c.Flush(); err != nil {
			log.Printf("session: final save for owner %d failed: %v", s.OwnerID, err)
		}
		c.Stop()
	}
}

// Manager creates sessions on first use.
type Manager struct {
	ctx      context.Context
	backend  Backend
	cfg      config.EditorConfig
	grid     layout.Grid
	pipeline *resilient.Pipeline
	onSaved  SavedFunc

	mu       sync.Mutex
	sessions map[uint64]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithSavedHook registers fn to run after each successful seat map save.
func WithSavedHook(fn SavedFunc) Option { return func(m *Manager) { m.onSaved = fn } }

// WithPipeline replaces the pipeline built from the configuration.
func WithPipeline(p *resilient.Pipeline) Option { return func(m *Manager) { m.pipeline = p } }

// NewManager returns a manager whose background saves run under ctx.
func NewManager(ctx context.Context, backend Backend, cfg config.EditorConfig, opts ...Option) *Manager {
	m := &Manager{
		ctx:      ctx,
		backend:  backend,
		cfg:      cfg,
		grid:     layout.NewGrid(cfg),
		sessions: make(map[uint64]*Session),
	}
	for _, o := range opts {
		o(m)
	}
	if m.pipeline == nil {
		m.pipeline = resilient.New(resilient.PolicyFor(cfg.SaveMaxAttempts, cfg.SaveBackoff, cfg.SaveBackoffMax))
	}
	return m
}

// Get returns the session for ownerID.
func (m *Manager) Get(ownerID uint64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[ownerID]; ok {
		return s
	}
	s := m.newSession(ownerID)
	m.sessions[ownerID] = s
	return s
}

func (m *Manager) newSession(ownerID uint64) *Session {
	var edOpts []editor.Option
	edOpts = append(edOpts, editor.WithPriceRange(m.cfg.PriceMin, m.cfg.PriceMax))
	if m.onSaved != nil {
		hook := m.onSaved
		edOpts = append(edOpts, editor.WithSavedHook(func(sv editor.Saved) { hook(ownerID, sv) }))
	}
	ed := editor.New(m.backend, m.grid, m.pipeline, edOpts...)

	coordOpts := []autosave.Option{
		autosave.WithWindow(m.cfg.AutosaveWindow),
		autosave.WithSuccessHold(m.cfg.AutosaveSuccessHold),
		autosave.WithContext(m.ctx),
	}
	seatSave := autosave.New("seat map", ed.Save, coordOpts...)
	ed.SetChangeHook(seatSave.Changed)

	form := settings.New(ownerID, m.backend, m.pipeline)
	settingsSave := autosave.New("settings", form.Save, coordOpts...)
	form.SetNotifier(settingsSave)

	return &Session{
		OwnerID:          ownerID,
		Editor:           ed,
		Autosave:         seatSave,
		Settings:         form,
		SettingsAutosave: settingsSave,
		backend:          m.backend,
		pipeline:         m.pipeline,
	}
}

// Close flushes pending auto-saves and stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[uint64]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
