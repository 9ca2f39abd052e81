package contest

import (
	"errors"
	"sync"
)

var (
	ErrNotFound    = errors.New("contest not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// Repo keeps contests in memory, most recently created first.
// Returned values are copies; callers cannot mutate stored contests.
type Repo struct {
	mu       sync.RWMutex
	contests []*Contest
}

func NewRepo() *Repo {
	return &Repo{}
}

func (r *Repo) List() []Contest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Contest, 0, len(r.contests))
	for _, c := range r.contests {
		res = append(res, c.clone())
	}
	return res
}

func (r *Repo) Get(id string) (Contest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.find(id)
	if c == nil {
		return Contest{}, false
	}
	return c.clone(), true
}

func (r *Repo) GetProblem(contestID, problemID string) (Problem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.find(contestID)
	if c == nil {
		return Problem{}, false
	}
	for _, p := range c.Problems {
		if p.ID == problemID {
			return p.clone(), true
		}
	}
	return Problem{}, false
}

// FindProblem looks a problem up by id alone. A problem used by several
// contests has the same id and content in each, so the first hit wins.
func (r *Repo) FindProblem(problemID string) (Problem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.contests {
		for _, p := range c.Problems {
			if p.ID == problemID {
				return p.clone(), true
			}
		}
	}
	return Problem{}, false
}

// Insert stores c as the most recent contest.
func (r *Repo) Insert(c Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(c.ID) != nil {
		return ErrDuplicateID
	}
	stored := c.clone()
	r.contests = append([]*Contest{&stored}, r.contests...)
	return nil
}

// Append stores c as the oldest contest. Used when loading seed data
// that is already listed most recent first.
func (r *Repo) Append(c Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(c.ID) != nil {
		return ErrDuplicateID
	}
	stored := c.clone()
	r.contests = append(r.contests, &stored)
	return nil
}

// AddProblem appends p to the problem list of the contest. Problems
// that are shared by several contests are inserted once per contest
// with the same id.
func (r *Repo) AddProblem(contestID string, p Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(contestID)
	if c == nil {
		return ErrNotFound
	}
	for _, existing := range c.Problems {
		if existing.ID == p.ID {
			return ErrDuplicateID
		}
	}
	c.Problems = append(c.Problems, p.clone())
	return nil
}

// AddParticipant registers userID for the contest. Joining twice is
// a no-op.
func (r *Repo) AddParticipant(contestID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(contestID)
	if c == nil {
		return ErrNotFound
	}
	if !c.IsParticipant(userID) {
		c.Participants = append(c.Participants, userID)
	}
	return nil
}

func (r *Repo) find(id string) *Contest {
	for _, c := range r.contests {
		if c.ID == id {
			return c
		}
	}
	return nil
}
