package judge_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/subm"
)

var t0 = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	tl    *judge.ManualTimeline
	store *subm.Store
	judge *judge.Judge

	mu      sync.Mutex
	history map[string][]subm.Verdict
}

func newFixture(t *testing.T, decider judge.Decider) *fixture {
	t.Helper()
	tl := judge.NewManualTimeline(t0)
	n := 0
	store := subm.NewStore(
		subm.WithClock(tl.Clock()),
		subm.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
	)
	f := &fixture{
		tl:      tl,
		store:   store,
		judge:   judge.New(store, decider, tl, judge.DefaultConfig()),
		history: make(map[string][]subm.Verdict),
	}
	store.OnVerdictChange(func(s subm.Subm) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.history[s.ID] = append(f.history[s.ID], s.Verdict)
	})
	return f
}

func (f *fixture) submit(problemID, language, code string) string {
	s := f.store.Create(subm.NewSubm{
		UserID:    "user-1",
		Username:  "TheLurker",
		ProblemID: problemID,
		Language:  language,
		Code:      code,
	})
	f.judge.Enqueue(s.ID)
	return s.ID
}

func (f *fixture) verdict(id string) subm.Verdict {
	s, _ := f.store.Get(id)
	return s.Verdict
}

func (f *fixture) historyOf(id string) []subm.Verdict {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]subm.Verdict(nil), f.history[id]...)
}

func always(v subm.Verdict) judge.Decider {
	return judge.DeciderFunc(func(string, string, string) subm.Verdict { return v })
}
