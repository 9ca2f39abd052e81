// Package poller runs the fixed-interval refresh loops of API clients.
// Every loop is bound to a context and leaves no timer behind once
// that context is done.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/subm"
)

// Default cadences of the standings client.
const (
	SubmissionInterval = time.Second
	SubmListInterval   = 2 * time.Second
	RankingInterval    = 30 * time.Second
)

var ErrSubmissionGone = errors.New("submission not found")

type Poller struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

func New(clock clockwork.Clock) *Poller {
	return &Poller{
		clock:  clock,
		logger: slog.Default().With("module", "poller"),
	}
}

// wait sleeps for d or until ctx is done, whichever comes first.
func (p *Poller) wait(ctx context.Context, d time.Duration) error {
	timer := p.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// Every calls fn right away and then interval after each call returns,
// until ctx is done. Errors from fn are logged and the loop goes on.
// It always returns ctx.Err().
func (p *Poller) Every(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("poll failed", "error", err)
		}
		if err := p.wait(ctx, interval); err != nil {
			return err
		}
	}
}

// Until calls fetch every interval until done accepts the result. A
// fetch error ends the loop.
func Until[T any](
	ctx context.Context,
	p *Poller,
	interval time.Duration,
	fetch func(context.Context) (T, error),
	done func(T) bool,
) (T, error) {
	for {
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		if done(v) {
			return v, nil
		}
		if err := p.wait(ctx, interval); err != nil {
			return v, err
		}
	}
}

// Submission polls one submission until it reaches a terminal verdict
// and returns that final state. onUpdate, if set, sees every state
// whose verdict differs from the previous one.
func (p *Poller) Submission(
	ctx context.Context,
	interval time.Duration,
	get func(ctx context.Context, id string) (*subm.Subm, error),
	id string,
	onUpdate func(subm.Subm),
) (subm.Subm, error) {
	var last subm.Verdict
	return Until(ctx, p, interval,
		func(ctx context.Context) (subm.Subm, error) {
			s, err := get(ctx, id)
			if err != nil {
				return subm.Subm{}, err
			}
			if s == nil {
				return subm.Subm{}, ErrSubmissionGone
			}
			if onUpdate != nil && s.Verdict != last {
				onUpdate(*s)
			}
			last = s.Verdict
			return *s, nil
		},
		func(s subm.Subm) bool { return s.Verdict.IsTerminal() },
	)
}
