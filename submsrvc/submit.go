package submsrvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/royal-judge/backend/logger"
	"github.com/royal-judge/backend/planglist"
	"github.com/royal-judge/backend/subm"
)

const maxSubmLengthKB = 64

type SubmitParams struct {
	UserID    string
	ProblemID string
	Language  string
	Code      string
}

// SubmitSol stores a Pending submission and queues it for judging.
// Nothing is stored when validation fails.
func (s *SubmSrvc) SubmitSol(ctx context.Context, p SubmitParams) (*subm.Subm, error) {
	if p.UserID == "" {
		return nil, ErrMissingField("userId")
	}
	if p.ProblemID == "" {
		return nil, ErrMissingField("problemId")
	}
	if p.Language == "" {
		return nil, ErrMissingField("language")
	}
	if strings.TrimSpace(p.Code) == "" {
		return nil, ErrSubmissionEmpty()
	}
	if len(p.Code) > maxSubmLengthKB*1024 {
		return nil, ErrSubmissionTooLong(maxSubmLengthKB)
	}

	lang, err := planglist.GetProgrammingLanguage(p.Language)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound()
	}

	prob, err := s.problems.FindProblem(ctx, p.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if prob == nil {
		return nil, ErrProblemNotFound()
	}

	rec := s.store.Create(subm.NewSubm{
		UserID:       u.ID,
		Username:     u.Username,
		ProblemID:    prob.ID,
		ProblemTitle: prob.Title,
		Language:     lang.ID,
		Code:         p.Code,
	})
	s.judge.Enqueue(rec.ID)

	logger.FromContext(ctx).Info("submission created",
		"module", "submsrvc",
		"subm-id", rec.ID,
		"user-id", rec.UserID,
		"problem-id", rec.ProblemID,
		"lang", rec.Language)
	return &rec, nil
}
