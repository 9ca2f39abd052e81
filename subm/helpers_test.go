package subm_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/subm"
)

var t0 = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

// newTestStore returns a store with sequential ids s1, s2, ... and a
// fake clock starting at t0.
func newTestStore(t *testing.T) (*subm.Store, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(t0)
	n := 0
	store := subm.NewStore(
		subm.WithClock(clock),
		subm.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
	)
	return store, clock
}

func newSubm(userID, problemID string) subm.NewSubm {
	return subm.NewSubm{
		UserID:       userID,
		Username:     "name-" + userID,
		ProblemID:    problemID,
		ProblemTitle: "title-" + problemID,
		Language:     "Python",
		Code:         "print(1)",
	}
}
