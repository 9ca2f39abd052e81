// Package app wires the stores, the judge and the HTTP server into one
// process.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/conf"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/contestsrvc"
	apihttp "github.com/royal-judge/backend/http"
	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/logger"
	"github.com/royal-judge/backend/seed"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	"github.com/royal-judge/backend/user"
	"golang.org/x/sync/errgroup"
)

const statsInterval = time.Minute

type App struct {
	Clock    clockwork.Clock
	Users    *user.UserSrvc
	Contests *contestsrvc.ContestSrvc
	Store    *subm.Store
	Judge    *judge.Judge
	Subms    *submsrvc.SubmSrvc
	Server   *apihttp.HttpServer

	cfg *conf.Config
	log *slog.Logger
}

type options struct {
	timeline judge.Timeline
	clock    clockwork.Clock
	decider  judge.Decider
	seed     *seed.Document
}

type Option func(*options)

// WithManualTimeline drives the judge and every clock from tl, so that
// tests control time.
func WithManualTimeline(tl *judge.ManualTimeline) Option {
	return func(o *options) {
		o.timeline = tl
		o.clock = tl.Clock()
	}
}

func WithDecider(d judge.Decider) Option {
	return func(o *options) { o.decider = d }
}

// WithSeed replaces the seed file named in the config.
func WithSeed(doc *seed.Document) Option {
	return func(o *options) { o.seed = doc }
}

func New(cfg *conf.Config, opts ...Option) (*App, error) {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeline == nil {
		o.timeline = judge.NewTimeline(o.clock)
	}
	if o.decider == nil {
		o.decider = judge.NewDefaultDecider(cfg.Judge.ReferenceProblem,
			judge.NewRandomDecider(uint64(o.clock.Now().UnixNano())))
	}

	a := &App{
		Clock: o.clock,
		cfg:   cfg,
		log:   slog.Default().With("module", "app"),
	}

	repo := contest.NewRepo()
	a.Users = user.NewUserSrvc()
	a.Store = subm.NewStore(subm.WithClock(o.clock))
	a.Judge = judge.New(a.Store, o.decider, o.timeline, judge.Config{
		Tick:         cfg.Judge.Tick,
		CompileDelay: cfg.Judge.CompileDelay,
		RunDelay:     cfg.Judge.RunDelay,
	})
	a.Contests = contestsrvc.NewContestSrvc(repo, a.Store, a.Users, o.clock)
	a.Subms = submsrvc.NewSubmSrvc(a.Store, a.Judge, a.Contests, a.Users)

	if err := a.load(o.seed, repo); err != nil {
		return nil, err
	}

	jwtKey := cfg.JwtKey
	if jwtKey == "" {
		a.log.Warn("JWT_KEY is not set, using a random key; tokens will not survive a restart")
		jwtKey = randomKey()
	}

	a.Server = apihttp.NewHttpServer(a.Users, a.Contests, a.Subms, a.Judge, apihttp.Options{
		JwtKey:        []byte(jwtKey),
		CorsOrigins:   cfg.CorsOrigins,
		LogLevel:      logger.ParseLevel(cfg.LogLevel),
		StatsInterval: statsInterval,
	})
	return a, nil
}

// load fills the stores from the seed. When a snapshot exists the
// submissions come from it instead, and the unjudged ones go back on
// the queue.
func (a *App) load(doc *seed.Document, repo *contest.Repo) error {
	if doc == nil {
		var err error
		if doc, err = seed.Load(a.cfg.SeedFile); err != nil {
			return err
		}
	}

	snap, err := a.openSnapshot()
	if err != nil {
		return err
	}
	targets := seed.Targets{Users: a.Users, Contests: repo, Subms: a.Store}
	if snap != nil {
		defer snap.Close()
		targets.Subms = nil
	}
	if err := doc.Apply(a.Clock.Now(), targets); err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	unjudged, err := a.Store.Restore(snap)
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", a.cfg.SnapshotFile, err)
	}
	for _, id := range unjudged {
		a.Judge.Enqueue(id)
	}
	return nil
}

func (a *App) openSnapshot() (*os.File, error) {
	if a.cfg.SnapshotFile == "" {
		return nil, nil
	}
	f, err := os.Open(a.cfg.SnapshotFile)
	if errors.Is(err, os.ErrNotExist) {
		a.log.Info("no snapshot yet", "file", a.cfg.SnapshotFile)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	return f, nil
}

// SaveSnapshot writes every submission to the configured snapshot file.
// The file is replaced atomically.
func (a *App) SaveSnapshot() error {
	if a.cfg.SnapshotFile == "" {
		return nil
	}
	dir := filepath.Dir(a.cfg.SnapshotFile)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := a.Store.WriteSnapshot(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.cfg.SnapshotFile); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	a.log.Info("snapshot written", "file", a.cfg.SnapshotFile, "submissions", len(a.Store.List()))
	return nil
}

// Run serves and judges until ctx is done, then writes the snapshot.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Judge.Run(ctx)
	})
	g.Go(func() error {
		return a.Server.Start(ctx, a.cfg.HttpAddr)
	})
	err := g.Wait()

	if serr := a.SaveSnapshot(); serr != nil {
		a.log.Error("failed to write snapshot", "error", serr)
		err = errors.Join(err, serr)
	}
	return err
}

func randomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
