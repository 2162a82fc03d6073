// Package autosave provides a debounced save scheduler. Every draft
// mutation calls Trigger; the supplied save callback fires once per idle
// period, never more than one in flight.
package autosave

import (
	"context"
	"sync"
	"time"
)

// Status is the externally visible save status.
type Status string

// Save statuses
const (
	StatusIdle    Status = "idle"
	StatusUnsaved Status = "unsaved"
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
	StatusError   Status = "error"
)

// SaveFunc performs the actual save. It is invoked at most once at a time.
type SaveFunc func(ctx context.Context) error

// DefaultDelay is the debounce delay used when none is configured.
const DefaultDelay = 1500 * time.Millisecond

// Scheduler debounces save requests. A Trigger before the delay elapses
// restarts the timer, so rapid edits collapse into a single save carrying
// whatever content is current when the timer finally expires.
type Scheduler struct {
	mu       sync.Mutex
	delay    time.Duration
	save     SaveFunc
	timer    *time.Timer
	status   Status
	gen      uint64 // increments on every Trigger; stale timers check it
	stopped  bool
	onStatus func(Status)
}

// New creates a scheduler with the given debounce delay and save callback.
// A non-positive delay falls back to DefaultDelay.
func New(delay time.Duration, save SaveFunc) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		delay:  delay,
		save:   save,
		status: StatusIdle,
	}
}

// OnStatus registers a callback invoked on every status change. The
// callback runs outside the scheduler lock and must not call back into the
// scheduler. Must be set before the first Trigger.
func (s *Scheduler) OnStatus(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

// Trigger records that the draft changed: status becomes unsaved, any
// pending timer is cancelled, and a fresh timer is armed.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	notify := s.setStatusLocked(StatusUnsaved)
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
	s.mu.Unlock()
	notify()
}

// fire runs when a debounce timer expires. Superseded timers (a newer
// Trigger bumped the generation) and stopped schedulers do nothing.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	notify := s.setStatusLocked(StatusSaving)
	s.mu.Unlock()
	notify()

	err := s.save(context.Background())

	s.mu.Lock()
	if s.stopped || gen != s.gen {
		// A newer edit arrived while saving; its own timer owns the status now.
		s.mu.Unlock()
		return
	}
	status := StatusSaved
	if err != nil {
		status = StatusError
	}
	notify = s.setStatusLocked(status)
	s.mu.Unlock()
	notify()
}

// Stop cancels any pending timer and prevents further saves. Safe to call
// more than once; required on component teardown so no save fires against
// an abandoned context.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Status returns the current save status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// setStatusLocked mutates the status and returns the notification to run
// once the lock is released.
func (s *Scheduler) setStatusLocked(status Status) func() {
	if s.status == status || s.onStatus == nil {
		s.status = status
		return func() {}
	}
	s.status = status
	fn := s.onStatus
	return func() { fn(status) }
}
