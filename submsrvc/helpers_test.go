package submsrvc_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	"github.com/royal-judge/backend/user"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

type problemFinderMock struct {
	findProblem func(ctx context.Context, id string) (*contest.Problem, error)
}

func (m *problemFinderMock) FindProblem(ctx context.Context, id string) (*contest.Problem, error) {
	return m.findProblem(ctx, id)
}

type userDirMock struct {
	getUser func(ctx context.Context, id string) (*user.User, error)
}

func (m *userDirMock) GetUser(ctx context.Context, id string) (*user.User, error) {
	return m.getUser(ctx, id)
}

type enqueuerMock struct {
	ids []string
}

func (m *enqueuerMock) Enqueue(id string) {
	m.ids = append(m.ids, id)
}

func knownProblems() *problemFinderMock {
	problems := map[string]contest.Problem{
		"p1": {ID: "p1", Title: "A+B Problem"},
		"p2": {ID: "p2", Title: "Reverse a String"},
	}
	return &problemFinderMock{findProblem: func(_ context.Context, id string) (*contest.Problem, error) {
		p, ok := problems[id]
		if !ok {
			return nil, nil
		}
		return &p, nil
	}}
}

func knownUsers() *userDirMock {
	users := map[string]string{"user-1": "TheLurker", "user-2": "CodeMaster"}
	return &userDirMock{getUser: func(_ context.Context, id string) (*user.User, error) {
		name, ok := users[id]
		if !ok {
			return nil, nil
		}
		return &user.User{ID: id, Username: name}, nil
	}}
}

func newStore(tl *judge.ManualTimeline) *subm.Store {
	n := 0
	return subm.NewStore(
		subm.WithClock(tl.Clock()),
		subm.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
	)
}

type fixture struct {
	tl    *judge.ManualTimeline
	store *subm.Store
	judge *judge.Judge
	srvc  *submsrvc.SubmSrvc
}

// newJudgedFixture wires the service to a running judge on a manual
// timeline. Every submission is judged as v.
func newJudgedFixture(t *testing.T, v subm.Verdict) *fixture {
	t.Helper()
	tl := judge.NewManualTimeline(t0)
	store := newStore(tl)
	decider := judge.DeciderFunc(func(string, string, string) subm.Verdict { return v })
	j := judge.New(store, decider, tl, judge.DefaultConfig())
	j.Start()
	t.Cleanup(j.Shutdown)
	return &fixture{
		tl:    tl,
		store: store,
		judge: j,
		srvc:  submsrvc.NewSubmSrvc(store, j, knownProblems(), knownUsers()),
	}
}

func (f *fixture) submit(t *testing.T) string {
	t.Helper()
	s, err := f.srvc.SubmitSol(context.Background(), submsrvc.SubmitParams{
		UserID: "user-1", ProblemID: "p1", Language: "Python", Code: "print(1)",
	})
	require.NoError(t, err)
	return s.ID
}
