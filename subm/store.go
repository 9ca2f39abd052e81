package subm

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v3"
)

// Store owns every submission record. Records are kept in creation
// order; listings are returned most recent first. The verdict is the
// only field that changes after Create, and only through Advance.
type Store struct {
	mu    sync.RWMutex
	order []*Subm
	byID  *xsync.MapOf[string, *Subm]

	hookMu sync.RWMutex
	hooks  []func(Subm)

	clock clockwork.Clock
	newID func() string
	log   *slog.Logger
}

type StoreOption func(*Store)

func WithClock(c clockwork.Clock) StoreOption {
	return func(s *Store) { s.clock = c }
}

func WithIDGenerator(f func() string) StoreOption {
	return func(s *Store) { s.newID = f }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		byID:  xsync.NewMapOf[string, *Subm](),
		clock: clockwork.NewRealClock(),
		newID: newUUIDv7,
		log:   slog.Default().With("module", "subm"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Create stores a new Pending submission stamped with the current time.
func (s *Store) Create(in NewSubm) Subm {
	rec := &Subm{
		ID:           s.newID(),
		UserID:       in.UserID,
		Username:     in.Username,
		ProblemID:    in.ProblemID,
		ProblemTitle: in.ProblemTitle,
		Language:     in.Language,
		Code:         in.Code,
		Verdict:      Pending,
		SubmittedAt:  s.clock.Now(),
	}

	s.mu.Lock()
	s.order = append(s.order, rec)
	s.byID.Store(rec.ID, rec)
	out := *rec
	s.mu.Unlock()

	s.log.Info("submission created", "subm-id", out.ID, "user-id", out.UserID, "problem-id", out.ProblemID)
	return out
}

// Import adds an existing record as the newest one, keeping its ID,
// timestamp and verdict. Used for seed data and snapshot restore.
func (s *Store) Import(rec Subm) error {
	if rec.ID == "" {
		return fmt.Errorf("import submission: empty id")
	}
	if !rec.Verdict.IsValid() {
		return fmt.Errorf("import submission %s: %w %q", rec.ID, ErrInvalidVerdict, rec.Verdict)
	}
	p := &rec
	if _, loaded := s.byID.LoadOrStore(rec.ID, p); loaded {
		return ErrDuplicateID
	}
	s.mu.Lock()
	s.order = append(s.order, p)
	s.mu.Unlock()
	return nil
}

// Get returns a snapshot of the submission and whether it exists.
func (s *Store) Get(id string) (Subm, bool) {
	p, ok := s.byID.Load(id)
	if !ok {
		return Subm{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *p, true
}

func (s *Store) ListByUser(userID string) []Subm {
	return s.filter(func(r *Subm) bool { return r.UserID == userID })
}

func (s *Store) ListByProblems(problemIDs []string) []Subm {
	return s.filter(func(r *Subm) bool { return slices.Contains(problemIDs, r.ProblemID) })
}

// List returns every submission, most recent first.
func (s *Store) List() []Subm {
	return s.filter(func(*Subm) bool { return true })
}

func (s *Store) filter(keep func(*Subm) bool) []Subm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Subm, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		if keep(s.order[i]) {
			res = append(res, *s.order[i])
		}
	}
	return res
}

// Advance moves the submission to next. Only the single legal successor
// of the current verdict is accepted.
func (s *Store) Advance(id string, next Verdict) error {
	p, ok := s.byID.Load(id)
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	if !CanAdvance(p.Verdict, next) {
		cur := p.Verdict
		s.mu.Unlock()
		return illegalTransition(id, cur, next)
	}
	p.Verdict = next
	snapshot := *p
	s.mu.Unlock()

	s.log.Debug("verdict changed", "subm-id", id, "verdict", next)

	s.hookMu.RLock()
	hooks := s.hooks
	s.hookMu.RUnlock()
	for _, h := range hooks {
		h(snapshot)
	}
	return nil
}

// OnVerdictChange registers f to be called after every successful
// Advance. f must not block.
func (s *Store) OnVerdictChange(f func(Subm)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(slices.Clip(s.hooks), f)
}

func (s *Store) Stats() VerdictCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(VerdictCounts)
	for _, r := range s.order {
		res[r.Verdict]++
	}
	return res
}
