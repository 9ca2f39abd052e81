package judge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/royal-judge/backend/subm"
)

type Config struct {
	Tick         time.Duration
	CompileDelay time.Duration
	RunDelay     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Tick:         time.Second,
		CompileDelay: 1500 * time.Millisecond,
		RunDelay:     2500 * time.Millisecond,
	}
}

// SubmStore is the part of the submission store the judge needs.
// The judge is the only caller of Advance.
type SubmStore interface {
	Get(id string) (subm.Subm, bool)
	Advance(id string, next subm.Verdict) error
}

type Stats struct {
	Queued   int `json:"queued"`
	InFlight int `json:"inFlight"`
	Judged   int `json:"judged"`
}

// Judge drains the queue one submission per tick and walks each
// dequeued submission through the verdict pipeline. Pipelines of
// different submissions overlap freely.
type Judge struct {
	store   SubmStore
	decider Decider
	tl      Timeline
	cfg     Config
	phases  []phase
	queue   Queue
	log     *slog.Logger

	mu       sync.Mutex
	running  bool
	stopTick func() bool
	inFlight map[string]*run
	judged   int
}

func New(store SubmStore, decider Decider, tl Timeline, cfg Config) *Judge {
	j := &Judge{
		store:    store,
		decider:  decider,
		tl:       tl,
		cfg:      cfg,
		log:      slog.Default().With("module", "judge"),
		inFlight: make(map[string]*run),
	}
	j.phases = j.pipeline()
	return j
}

func (j *Judge) Enqueue(id string) {
	j.queue.Enqueue(id)
	j.log.Info("submission enqueued", "subm-id", id, "queued", j.queue.Len())
}

// Start schedules the first tick. Calling Start twice is a no-op.
// Submissions that a previous Shutdown left mid pipeline resume with
// their next phase, its full delay counted from now.
func (j *Judge) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stopTick = j.tl.AfterFunc(j.cfg.Tick, j.tick)
	for _, r := range j.inFlight {
		if r.stop == nil && !r.stepping {
			j.arm(r)
		}
	}
	j.log.Info("judge started", "tick", j.cfg.Tick, "resumed", len(j.inFlight))
}

// Run starts the judge and blocks until ctx is done.
func (j *Judge) Run(ctx context.Context) error {
	j.Start()
	<-ctx.Done()
	j.Shutdown()
	return nil
}

// Shutdown stops the ticker and all pending phase timers. Submissions
// left mid pipeline keep their current verdict until the next Start.
func (j *Judge) Shutdown() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	j.running = false
	if j.stopTick != nil {
		j.stopTick()
	}
	for _, r := range j.inFlight {
		// a timer that already fired has its step on the way; that step
		// sees the judge stopped and leaves the run for Start to re-arm
		if r.stop != nil && r.stop() {
			r.stop = nil
		}
	}
	j.log.Info("judge stopped", "in-flight", len(j.inFlight), "queued", j.queue.Len())
}

func (j *Judge) Stats() Stats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Stats{
		Queued:   j.queue.Len(),
		InFlight: len(j.inFlight),
		Judged:   j.judged,
	}
}

func (j *Judge) tick() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.stopTick = j.tl.AfterFunc(j.cfg.Tick, j.tick)
	j.mu.Unlock()

	id, ok := j.queue.Dequeue()
	if !ok {
		return
	}
	s, found := j.store.Get(id)
	if !found {
		j.log.Warn("dequeued submission no longer exists, skipping", "subm-id", id)
		return
	}
	j.begin(s)
}
