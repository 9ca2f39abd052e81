package poller_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/poller"
	"github.com/royal-judge/backend/subm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRunsOnIntervalUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := poller.New(clock)
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- p.Every(ctx, 2*time.Second, func(context.Context) error {
			calls.Add(1)
			return errors.New("flaky")
		})
	}()

	clock.BlockUntil(1)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Second)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Second)
	clock.BlockUntil(1)
	assert.EqualValues(t, 2, calls.Load(), "errors do not stop the loop")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Every did not return after cancel")
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestUntilStopsWhenDone(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := poller.New(clock)

	var n atomic.Int32
	done := make(chan int, 1)
	go func() {
		v, _ := poller.Until(context.Background(), p, time.Second,
			func(context.Context) (int, error) { return int(n.Add(1)), nil },
			func(v int) bool { return v == 3 })
		done <- v
	}()

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case v := <-done:
		assert.Equal(t, 3, v)
	case <-time.After(time.Second):
		t.Fatal("Until did not return")
	}
}

func TestUntilReturnsFetchError(t *testing.T) {
	p := poller.New(clockwork.NewFakeClock())
	boom := errors.New("boom")
	_, err := poller.Until(context.Background(), p, time.Second,
		func(context.Context) (int, error) { return 0, boom },
		func(int) bool { return false })
	assert.ErrorIs(t, err, boom)
}

type fakeSubms struct {
	mu    sync.Mutex
	steps []subm.Verdict
	calls int
}

func (f *fakeSubms) get(_ context.Context, id string) (*subm.Subm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	f.calls++
	return &subm.Subm{ID: id, Verdict: f.steps[i]}, nil
}

func TestSubmissionPollsToTerminal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := poller.New(clock)
	src := &fakeSubms{steps: []subm.Verdict{
		subm.Pending, subm.Compiling, subm.Compiling, subm.Running, subm.Accepted,
	}}

	var seen []subm.Verdict
	var pollErr error
	done := make(chan subm.Subm, 1)
	go func() {
		s, err := p.Submission(context.Background(), poller.SubmissionInterval, src.get, "s1",
			func(s subm.Subm) { seen = append(seen, s.Verdict) })
		pollErr = err
		done <- s
	}()

	for i := 0; i < 4; i++ {
		clock.BlockUntil(1)
		clock.Advance(poller.SubmissionInterval)
	}

	select {
	case s := <-done:
		require.NoError(t, pollErr)
		assert.Equal(t, subm.Accepted, s.Verdict)
		assert.Equal(t, "s1", s.ID)
	case <-time.After(time.Second):
		t.Fatal("submission poll did not finish")
	}
	assert.Equal(t, []subm.Verdict{subm.Pending, subm.Compiling, subm.Running, subm.Accepted}, seen)
	assert.Equal(t, 5, src.calls)
}

func TestSubmissionStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := poller.New(clock)
	src := &fakeSubms{steps: []subm.Verdict{subm.Pending}}
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Submission(ctx, time.Second, src.get, "s1", nil)
		errCh <- err
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("submission poll ignored cancel")
	}
}

func TestSubmissionGone(t *testing.T) {
	p := poller.New(clockwork.NewFakeClock())
	_, err := p.Submission(context.Background(), time.Second,
		func(context.Context, string) (*subm.Subm, error) { return nil, nil }, "nope", nil)
	assert.ErrorIs(t, err, poller.ErrSubmissionGone)
}
