// Package autosave coalesces bursts of draft mutations into a single save.
// Each change restarts a settling timer; the save runs once the timer
// elapses without further changes.
package autosave

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

// Indicator is the save status shown next to an auto-saving form.
type Indicator string

const (
	Idle    Indicator = "idle"
	Saving  Indicator = "saving"
	Success Indicator = "success"
)

// SaveFunc persists the current state.  It reads the snapshot itself at
// call time so the latest mutation is always included.
type SaveFunc func(ctx context.Context) error

// Coordinator debounces change notifications.  It is safe for concurrent use.
type Coordinator struct {
	name        string
	save        SaveFunc
	window      time.Duration
	successHold time.Duration
	clock       Clock
	ctx         context.Context

	mu        sync.Mutex
	pending   Timer
	clear     Timer
	suppress  bool
	indicator Indicator
	inFlight  int
	stopped   bool
	round     uint64 // bumped on every Changed so a superseded timer is ignored
	seq       uint64 // bumped on every success so a stale clear timer is ignored
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWindow overrides the 500ms settling window.
func WithWindow(d time.Duration) Option { return func(c *Coordinator) { c.window = d } }

// WithSuccessHold overrides how long Success stays visible (2s).
func WithSuccessHold(d time.Duration) Option { return func(c *Coordinator) { c.successHold = d } }

// WithClock injects a clock; used by tests.
func WithClock(clk Clock) Option { return func(c *Coordinator) { c.clock = clk } }

// WithContext sets the context passed to save calls.
func WithContext(ctx context.Context) Option { return func(c *Coordinator) { c.ctx = ctx } }

// New returns an idle coordinator.  name only appears in logs.
func New(name string, save SaveFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		name:        name,
		save:        save,
		window:      500 * time.Millisecond,
		successHold: 2 * time.Second,
		clock:       realClock{},
		ctx:         context.Background(),
		indicator:   Idle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SuppressNext makes the next Changed call a no-op.  Call it before
// populating a form from loaded data.
func (c *Coordinator) SuppressNext() {
	c.mu.Lock()
	c.suppress = true
	c.mu.Unlock()
}

// Changed records a mutation and restarts the settling timer.
func (c *Coordinator) Changed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if c.suppress {
		c.suppress = false
		return
	}
	if c.pending != nil {
		c.pending.Stop()
	}
	c.round++
	round := c.round
	c.pending = c.clock.AfterFunc(c.window, func() { c.fire(round) })
}

// Pending reports whether a save is scheduled but not yet started.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Indicator returns the current save status.
func (c *Coordinator) Indicator() Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indicator
}

// Flush runs a scheduled save immediately.  It returns nil when nothing
// was pending.
func (c *Coordinator) Flush() error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return nil
	}
	c.pending.Stop()
	c.pending = nil
	c.mu.Unlock()
	return c.run()
}

// Stop cancels any scheduled save and ignores later changes.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
}

func (c *Coordinator) fire(round uint64) {
	c.mu.Lock()
	if c.pending == nil || c.stopped || round != c.round {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()
	if err := c.run(); err != nil {
		log.Printf("autosave: %s save failed: %v", c.name, err)
	}
}

// run performs one save.  Saves are not cancelled by later changes; a
// change arriving meanwhile schedules its own save.  A save that had
// nothing to persist leaves the indicator idle.
func (c *Coordinator) run() error {
	c.mu.Lock()
	c.inFlight++
	c.indicator = Saving
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
	c.mu.Unlock()

	err := c.save(c.ctx)
	skipped := errors.Is(err, resilient.ErrNothingToSave)
	if skipped {
		err = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if c.inFlight > 0 {
		return err
	}
	if err != nil || skipped {
		c.indicator = Idle
		return err
	}
	c.indicator = Success
	c.seq++
	seq := c.seq
	if !c.stopped {
		c.clear = c.clock.AfterFunc(c.successHold, func() { c.clearSuccess(seq) })
	}
	return nil
}

func (c *Coordinator) clearSuccess(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seq && c.indicator == Success {
		c.indicator = Idle
		c.clear = nil
	}
}
