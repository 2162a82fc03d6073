package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusRecorder collects status transitions in order.
type statusRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *statusRecorder) record(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *statusRecorder) all() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, len(r.statuses))
	copy(out, r.statuses)
	return out
}

func waitForStatus(t *testing.T, s *Scheduler, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("scheduler never reached status %q (stuck at %q)", want, s.Status())
}

func TestScheduler_DebounceCollapsesRapidTriggers(t *testing.T) {
	var saves atomic.Int64
	s := New(50*time.Millisecond, func(context.Context) error {
		saves.Add(1)
		return nil
	})
	defer s.Stop()

	// Rapid triggers within the debounce window must collapse to one save.
	s.Trigger()
	s.Trigger()
	s.Trigger()

	waitForStatus(t, s, StatusSaved)
	assert.Equal(t, int64(1), saves.Load())
}

func TestScheduler_StatusSequence(t *testing.T) {
	rec := &statusRecorder{}
	s := New(20*time.Millisecond, func(context.Context) error {
		return nil
	})
	defer s.Stop()
	s.OnStatus(rec.record)

	s.Trigger()
	waitForStatus(t, s, StatusSaved)

	require.Equal(t, []Status{StatusUnsaved, StatusSaving, StatusSaved}, rec.all())
}

func TestScheduler_TriggerRestartsTimer(t *testing.T) {
	var saves atomic.Int64
	s := New(80*time.Millisecond, func(context.Context) error {
		saves.Add(1)
		return nil
	})
	defer s.Stop()

	s.Trigger()
	time.Sleep(40 * time.Millisecond)
	// Still inside the window: the pending save must be superseded.
	s.Trigger()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(0), saves.Load(), "save fired before the restarted delay elapsed")

	waitForStatus(t, s, StatusSaved)
	assert.Equal(t, int64(1), saves.Load())
}

func TestScheduler_SaveErrorSetsErrorStatus(t *testing.T) {
	s := New(20*time.Millisecond, func(context.Context) error {
		return errors.New("backend down")
	})
	defer s.Stop()

	s.Trigger()
	waitForStatus(t, s, StatusError)
}

func TestScheduler_StopCancelsPendingSave(t *testing.T) {
	var saves atomic.Int64
	s := New(50*time.Millisecond, func(context.Context) error {
		saves.Add(1)
		return nil
	})

	s.Trigger()
	s.Stop()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), saves.Load())

	// Triggers after Stop are ignored.
	s.Trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), saves.Load())
}

func TestScheduler_EditDuringSaveKeepsUnsavedOwnership(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	s := New(20*time.Millisecond, func(context.Context) error {
		once.Do(func() { close(started) })
		<-block
		return nil
	})
	defer s.Stop()

	s.Trigger()
	<-started
	// A new edit arrives while the first save is still running; the old
	// save must not claim the status when it finishes.
	s.Trigger()
	close(block)

	waitForStatus(t, s, StatusSaved)
}

func TestNew_NonPositiveDelayFallsBack(t *testing.T) {
	s := New(0, func(context.Context) error { return nil })
	assert.Equal(t, DefaultDelay, s.delay)
	assert.Equal(t, StatusIdle, s.Status())
}
