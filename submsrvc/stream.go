package submsrvc

import (
	"context"
	"sync"

	"github.com/royal-judge/backend/subm"
)

type listener struct {
	submID string

	mu     sync.Mutex
	ch     chan subm.Subm
	done   chan struct{}
	stage  int
	closed bool
}

// stage orders verdicts along the pipeline so a late snapshot never
// replaces a newer one already waiting in the channel.
func stage(v subm.Verdict) int {
	switch v {
	case subm.Pending:
		return 0
	case subm.Compiling:
		return 1
	case subm.Running:
		return 2
	default:
		return 3
	}
}

// offer keeps only the latest snapshot in the channel and closes it
// once a terminal verdict has been handed over. Reports whether the
// listener is finished.
func (l *listener) offer(s subm.Subm) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return true
	}
	if st := stage(s.Verdict); st >= l.stage {
		l.stage = st
		select {
		case <-l.ch:
			// Removed stale update
		default:
		}
		l.ch <- s
	}
	if s.Verdict.IsTerminal() {
		l.closeLocked()
	}
	return l.closed
}

func (l *listener) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closeLocked()
	}
}

func (l *listener) closeLocked() {
	close(l.ch)
	close(l.done)
	l.closed = true
}

func (s *SubmSrvc) broadcastSubmUpdate(rec subm.Subm) {
	s.listeners.Range(func(key uint64, l *listener) bool {
		if l.submID == rec.ID && l.offer(rec) {
			s.listeners.Delete(key)
		}
		return true
	})
}

// SubsSubmUpd streams snapshots of one submission. The current state is
// delivered first, then every verdict change. The channel holds only
// the latest snapshot and is closed after the terminal verdict or when
// ctx is done. Returns nil, nil for an unknown id.
func (s *SubmSrvc) SubsSubmUpd(ctx context.Context, id string) (<-chan subm.Subm, error) {
	if _, ok := s.store.Get(id); !ok {
		return nil, nil
	}

	l := &listener{submID: id, ch: make(chan subm.Subm, 1), done: make(chan struct{})}
	key := s.listenerID.Add(1)
	s.listeners.Store(key, l)

	// read after registering so no change falls between the two
	cur, _ := s.store.Get(id)
	if l.offer(cur) {
		s.listeners.Delete(key)
		return l.ch, nil
	}

	s.logger.Debug("listener subscribed", "subm-id", id, "listeners", s.listenerCount())
	go func() {
		select {
		case <-ctx.Done():
			l.stop()
		case <-l.done:
		}
		s.listeners.Delete(key)
		s.logger.Debug("listener released", "subm-id", id)
	}()

	return l.ch, nil
}

func (s *SubmSrvc) listenerCount() int {
	return s.listeners.Size()
}
