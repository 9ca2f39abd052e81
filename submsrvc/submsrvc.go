package submsrvc

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/royal-judge/backend/contest"
	decorator "github.com/royal-judge/backend/srvccqs"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/user"
)

type judgeQueue interface {
	Enqueue(id string)
}

type problemFinder interface {
	FindProblem(ctx context.Context, problemID string) (*contest.Problem, error)
}

type userDirectory interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// SubmSrvc accepts submissions, hands them to the judge and lets
// callers follow their verdicts.
type SubmSrvc struct {
	logger *slog.Logger

	store    *subm.Store
	judge    judgeQueue
	problems problemFinder
	users    userDirectory

	listeners  *xsync.MapOf[uint64, *listener]
	listenerID atomic.Uint64

	// handler views used by the http layer
	Submit    decorator.QueryHandler[SubmitParams, *subm.Subm]
	Get       decorator.QueryHandler[string, *subm.Subm]
	ListUser  decorator.QueryHandler[string, []subm.Subm]
	Subscribe decorator.QueryHandler[string, <-chan subm.Subm]
}

func NewSubmSrvc(
	store *subm.Store,
	judge judgeQueue,
	problems problemFinder,
	users userDirectory,
) *SubmSrvc {
	s := &SubmSrvc{
		logger:    slog.Default().With("module", "submsrvc"),
		store:     store,
		judge:     judge,
		problems:  problems,
		users:     users,
		listeners: xsync.NewMapOf[uint64, *listener](),
	}
	s.Submit = decorator.QueryFunc[SubmitParams, *subm.Subm](s.SubmitSol)
	s.Get = decorator.QueryFunc[string, *subm.Subm](s.GetSubm)
	s.ListUser = decorator.QueryFunc[string, []subm.Subm](s.ListUserSubms)
	s.Subscribe = decorator.QueryFunc[string, <-chan subm.Subm](s.SubsSubmUpd)

	store.OnVerdictChange(s.broadcastSubmUpdate)
	return s
}

// GetSubm returns nil, nil for an unknown id.
func (s *SubmSrvc) GetSubm(ctx context.Context, id string) (*subm.Subm, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListUserSubms lists the user's submissions, most recent first.
func (s *SubmSrvc) ListUserSubms(ctx context.Context, userID string) ([]subm.Subm, error) {
	return s.store.ListByUser(userID), nil
}

func (s *SubmSrvc) Stats() subm.VerdictCounts {
	return s.store.Stats()
}
