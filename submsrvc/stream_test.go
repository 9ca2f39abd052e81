package submsrvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/royal-judge/backend/subm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan subm.Subm) subm.Subm {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return s
	default:
		require.FailNow(t, "no update waiting")
		return subm.Subm{}
	}
}

func requireClosed(t *testing.T, ch <-chan subm.Subm) {
	t.Helper()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestSubsSubmUpdFollowsPipeline(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	id := f.submit(t)

	ch, err := f.srvc.SubsSubmUpd(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, subm.Pending, receive(t, ch).Verdict)

	f.tl.Advance(time.Second)
	assert.Equal(t, subm.Compiling, receive(t, ch).Verdict)

	f.tl.Advance(1500 * time.Millisecond)
	assert.Equal(t, subm.Running, receive(t, ch).Verdict)

	f.tl.Advance(2500 * time.Millisecond)
	final := receive(t, ch)
	assert.Equal(t, subm.Accepted, final.Verdict)
	assert.Equal(t, id, final.ID)
	requireClosed(t, ch)
}

func TestSubsSubmUpdKeepsLatestOnly(t *testing.T) {
	f := newJudgedFixture(t, subm.WrongAnswer)
	id := f.submit(t)

	ch, err := f.srvc.SubsSubmUpd(context.Background(), id)
	require.NoError(t, err)

	// nobody reads while the whole pipeline runs
	f.tl.Advance(10 * time.Second)

	assert.Equal(t, subm.WrongAnswer, receive(t, ch).Verdict)
	requireClosed(t, ch)
}

func TestSubsSubmUpdAfterTerminal(t *testing.T) {
	f := newJudgedFixture(t, subm.TimeLimitExceeded)
	id := f.submit(t)
	f.tl.Advance(10 * time.Second)

	ch, err := f.srvc.SubsSubmUpd(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, subm.TimeLimitExceeded, receive(t, ch).Verdict)
	requireClosed(t, ch)
}

func TestSubsSubmUpdClosesOnCancel(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	id := f.submit(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := f.srvc.SubsSubmUpd(ctx, id)
	require.NoError(t, err)
	receive(t, ch)

	cancel()
	requireClosed(t, ch)

	// the judge keeps going without the subscriber
	f.tl.Advance(10 * time.Second)
	s, _ := f.srvc.GetSubm(context.Background(), id)
	assert.Equal(t, subm.Accepted, s.Verdict)
}

func TestSubsSubmUpdUnknown(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	ch, err := f.srvc.SubsSubmUpd(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestSubsSubmUpdIgnoresOtherSubmissions(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	a := f.submit(t)
	b := f.submit(t)

	ch, err := f.srvc.SubsSubmUpd(context.Background(), b)
	require.NoError(t, err)
	receive(t, ch)

	// a is dequeued at 1s, b at 2s
	f.tl.Advance(time.Second)
	s, _ := f.srvc.GetSubm(context.Background(), a)
	assert.Equal(t, subm.Compiling, s.Verdict)
	select {
	case <-ch:
		t.Fatal("update for another submission leaked")
	default:
	}

	f.tl.Advance(time.Second)
	assert.Equal(t, subm.Compiling, receive(t, ch).Verdict)
}
