package contestsrvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/logger"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/user"
)

type submLister interface {
	ListByProblems(problemIDs []string) []subm.Subm
}

type userDirectory interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type ContestSrvc struct {
	repo   *contest.Repo
	subms  submLister
	users  userDirectory
	clock  clockwork.Clock
	newID  func() string
	logger *slog.Logger
}

func NewContestSrvc(repo *contest.Repo, subms submLister, users userDirectory, clock clockwork.Clock) *ContestSrvc {
	return &ContestSrvc{
		repo:   repo,
		subms:  subms,
		users:  users,
		clock:  clock,
		newID:  uuid.NewString,
		logger: slog.Default().With("module", "contest"),
	}
}

type ContestsByStatus struct {
	Active   []contest.Contest `json:"active"`
	Upcoming []contest.Contest `json:"upcoming"`
	Past     []contest.Contest `json:"past"`
}

func (s *ContestSrvc) ListContests(ctx context.Context) ([]contest.Contest, error) {
	return s.repo.List(), nil
}

// ListByStatus groups contests by their status at the current time.
func (s *ContestSrvc) ListByStatus(ctx context.Context) (*ContestsByStatus, error) {
	now := s.clock.Now()
	res := &ContestsByStatus{
		Active:   []contest.Contest{},
		Upcoming: []contest.Contest{},
		Past:     []contest.Contest{},
	}
	for _, c := range s.repo.List() {
		switch c.StatusAt(now) {
		case contest.Active:
			res.Active = append(res.Active, c)
		case contest.Upcoming:
			res.Upcoming = append(res.Upcoming, c)
		case contest.Past:
			res.Past = append(res.Past, c)
		}
	}
	return res, nil
}

// GetContest returns nil, nil for an unknown id.
func (s *ContestSrvc) GetContest(ctx context.Context, id string) (*contest.Contest, error) {
	c, ok := s.repo.Get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetProblem returns nil, nil if the contest or the problem is unknown.
func (s *ContestSrvc) GetProblem(ctx context.Context, contestID, problemID string) (*contest.Problem, error) {
	p, ok := s.repo.GetProblem(contestID, problemID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindProblem looks a problem up without knowing its contest.
func (s *ContestSrvc) FindProblem(ctx context.Context, problemID string) (*contest.Problem, error) {
	p, ok := s.repo.FindProblem(problemID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type CreateContestParams struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

func (s *ContestSrvc) CreateContest(ctx context.Context, p CreateContestParams) (*contest.Contest, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, newErrTitleEmpty()
	}
	if !p.StartTime.Before(p.EndTime) {
		return nil, newErrInvalidTimeWindow()
	}

	c := contest.Contest{
		ID:           "c-" + s.newID(),
		Title:        title,
		Description:  p.Description,
		StartTime:    p.StartTime.UTC(),
		EndTime:      p.EndTime.UTC(),
		Problems:     []contest.Problem{},
		Participants: []string{},
	}
	if err := s.repo.Insert(c); err != nil {
		return nil, fmt.Errorf("failed to store contest: %w", err)
	}

	logger.FromContext(ctx).Info("contest created", "module", "contestsrvc", "contest-id", c.ID, "title", c.Title)
	return &c, nil
}

type AddProblemParams struct {
	Title        string
	Statement    string
	InputFormat  string
	OutputFormat string
	SampleCases  []contest.SampleCase
	Tags         []string
	Difficulty   contest.Difficulty
	Points       int
}

func (s *ContestSrvc) AddProblem(ctx context.Context, contestID string, p AddProblemParams) (*contest.Problem, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, newErrTitleEmpty()
	}
	if p.Difficulty == "" {
		p.Difficulty = contest.Easy
	}
	if !p.Difficulty.IsValid() {
		return nil, newErrInvalidDifficulty()
	}
	if p.Points < 0 {
		return nil, newErrInvalidPoints()
	}

	prob := contest.Problem{
		ID:           "p-" + s.newID(),
		Title:        title,
		Statement:    p.Statement,
		InputFormat:  p.InputFormat,
		OutputFormat: p.OutputFormat,
		SampleCases:  append([]contest.SampleCase{}, p.SampleCases...),
		Tags:         append([]string{}, p.Tags...),
		Difficulty:   p.Difficulty,
		Points:       p.Points,
	}
	if err := s.repo.AddProblem(contestID, prob); err != nil {
		if errors.Is(err, contest.ErrNotFound) {
			return nil, ErrContestNotFound()
		}
		return nil, fmt.Errorf("failed to add problem: %w", err)
	}

	logger.FromContext(ctx).Info("problem added", "module", "contestsrvc", "contest-id", contestID, "problem-id", prob.ID)
	return &prob, nil
}

// JoinContest registers the user as a participant. Joining a contest
// twice is allowed; joining one that already ended is not.
func (s *ContestSrvc) JoinContest(ctx context.Context, contestID, userID string) error {
	c, ok := s.repo.Get(contestID)
	if !ok {
		return ErrContestNotFound()
	}
	if c.StatusAt(s.clock.Now()) == contest.Past {
		return newErrContestOver()
	}
	if err := s.repo.AddParticipant(contestID, userID); err != nil {
		if errors.Is(err, contest.ErrNotFound) {
			return ErrContestNotFound()
		}
		return fmt.Errorf("failed to join contest: %w", err)
	}
	return nil
}

// GetRanking recomputes the standings. An unknown contest has an empty
// ranking; participants whose account cannot be resolved are left out.
func (s *ContestSrvc) GetRanking(ctx context.Context, contestID string) ([]contest.Row, error) {
	c, ok := s.repo.Get(contestID)
	if !ok {
		return []contest.Row{}, nil
	}

	participants := make([]contest.Participant, 0, len(c.Participants))
	for _, userID := range c.Participants {
		u, err := s.users.GetUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participant %s: %w", userID, err)
		}
		if u == nil {
			s.logger.Warn("skipping unknown participant", "contest-id", contestID, "user-id", userID)
			continue
		}
		participants = append(participants, contest.Participant{UserID: u.ID, Username: u.Username})
	}

	// store listings are most recent first; ranking wants creation order
	subms := s.subms.ListByProblems(c.ProblemIDs())
	slices.Reverse(subms)

	return contest.Rank(c, participants, subms), nil
}
