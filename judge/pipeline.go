package judge

import (
	"time"

	"github.com/royal-judge/backend/subm"
)

// phase is one verdict transition, applied after a delay measured from
// the previous transition.
type phase struct {
	after   time.Duration
	verdict func(subm.Subm) subm.Verdict
}

// run tracks one submission through the pipeline. stop is set while a
// phase timer is pending, stepping while a phase is being applied.
// Both are guarded by Judge.mu.
type run struct {
	subm     subm.Subm
	next     int
	stop     func() bool
	stepping bool
}

func (j *Judge) pipeline() []phase {
	fixed := func(v subm.Verdict) func(subm.Subm) subm.Verdict {
		return func(subm.Subm) subm.Verdict { return v }
	}
	return []phase{
		{after: 0, verdict: fixed(subm.Compiling)},
		{after: j.cfg.CompileDelay, verdict: fixed(subm.Running)},
		{after: j.cfg.RunDelay, verdict: j.finalVerdict},
	}
}

func (j *Judge) finalVerdict(s subm.Subm) subm.Verdict {
	v := j.decider.Decide(s.Language, s.Code, s.ProblemID)
	if !v.IsTerminal() {
		j.log.Error("decider returned non-terminal verdict, using Wrong Answer",
			"subm-id", s.ID, "verdict", v)
		return subm.WrongAnswer
	}
	return v
}

// begin applies the first phase right away; the rest are scheduled.
func (j *Judge) begin(s subm.Subm) {
	r := &run{subm: s, stepping: true}
	j.mu.Lock()
	if _, dup := j.inFlight[s.ID]; dup {
		j.mu.Unlock()
		j.log.Warn("submission is already being judged, skipping", "subm-id", s.ID)
		return
	}
	j.inFlight[s.ID] = r
	j.mu.Unlock()
	j.step(r)
}

func (j *Judge) step(r *run) {
	j.mu.Lock()
	r.stop = nil
	r.stepping = true
	p := j.phases[r.next]
	j.mu.Unlock()

	v := p.verdict(r.subm)
	if err := j.store.Advance(r.subm.ID, v); err != nil {
		j.log.Error("failed to advance verdict", "subm-id", r.subm.ID, "verdict", v, "error", err)
		j.finish(r, false)
		return
	}

	j.mu.Lock()
	r.next++
	r.stepping = false
	done := r.next == len(j.phases)
	if !done && j.running {
		j.arm(r)
	}
	j.mu.Unlock()

	if done {
		j.log.Info("submission judged", "subm-id", r.subm.ID, "verdict", v)
		j.finish(r, true)
	}
}

// arm schedules the next phase of r. j.mu must be held.
func (j *Judge) arm(r *run) {
	r.stop = j.tl.AfterFunc(j.phases[r.next].after, func() { j.step(r) })
}

func (j *Judge) finish(r *run, judged bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.inFlight, r.subm.ID)
	if judged {
		j.judged++
	}
}
