package judge

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timeline schedules delayed callbacks. Every judge delay goes through
// it so that tests can drive the pipeline on virtual time.
type Timeline interface {
	Now() time.Time
	// AfterFunc runs f once after d. The returned stop func cancels f if
	// it has not started yet and reports whether it did so.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type clockTimeline struct {
	clock clockwork.Clock
}

// NewTimeline returns a Timeline backed by clock, usually the real one.
func NewTimeline(clock clockwork.Clock) Timeline {
	return clockTimeline{clock: clock}
}

func (t clockTimeline) Now() time.Time {
	return t.clock.Now()
}

func (t clockTimeline) AfterFunc(d time.Duration, f func()) func() bool {
	return t.clock.AfterFunc(d, f).Stop
}

// ManualTimeline is a Timeline that only moves when Advance is called.
// Due callbacks run synchronously on the caller of Advance, ordered by
// due time and then by scheduling order.
type ManualTimeline struct {
	mu    sync.Mutex
	clock clockwork.FakeClock
	tasks []*scheduled
	seq   uint64
}

type scheduled struct {
	at   time.Time
	seq  uint64
	f    func()
	done bool
}

func NewManualTimeline(start time.Time) *ManualTimeline {
	return &ManualTimeline{clock: clockwork.NewFakeClockAt(start)}
}

// Clock exposes the underlying virtual clock so that other components
// can share the same notion of now.
func (m *ManualTimeline) Clock() clockwork.Clock {
	return m.clock
}

func (m *ManualTimeline) Now() time.Time {
	return m.clock.Now()
}

func (m *ManualTimeline) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &scheduled{at: m.clock.Now().Add(d), seq: m.seq, f: f}
	m.tasks = append(m.tasks, task)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if task.done {
			return false
		}
		task.done = true
		m.remove(task)
		return true
	}
}

// Advance moves time forward by d, firing every callback that falls due,
// including callbacks scheduled by other callbacks along the way.
func (m *ManualTimeline) Advance(d time.Duration) {
	target := m.Now().Add(d)
	for {
		m.mu.Lock()
		next := m.earliest()
		if next == nil || next.at.After(target) {
			if gap := target.Sub(m.clock.Now()); gap > 0 {
				m.clock.Advance(gap)
			}
			m.mu.Unlock()
			return
		}
		next.done = true
		m.remove(next)
		if gap := next.at.Sub(m.clock.Now()); gap > 0 {
			m.clock.Advance(gap)
		}
		m.mu.Unlock()

		next.f()
	}
}

// Pending is the number of callbacks not yet fired or stopped.
func (m *ManualTimeline) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *ManualTimeline) earliest() *scheduled {
	var best *scheduled
	for _, t := range m.tasks {
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *ManualTimeline) remove(task *scheduled) {
	for i, t := range m.tasks {
		if t == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
