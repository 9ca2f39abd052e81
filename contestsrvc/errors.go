package contestsrvc

import (
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

const ErrCodeContestNotFound = "contest_not_found"

func ErrContestNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestNotFound,
		"Contest not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeProblemNotFound = "problem_not_found"

func ErrProblemNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		"Problem not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeTitleEmpty = "title_empty"

func newErrTitleEmpty() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTitleEmpty,
		"Title must not be empty.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidTimeWindow = "invalid_time_window"

func newErrInvalidTimeWindow() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidTimeWindow,
		"Start time must be before end time.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidDifficulty = "invalid_difficulty"

func newErrInvalidDifficulty() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidDifficulty,
		"Difficulty must be Easy, Medium or Hard.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidPoints = "invalid_points"

func newErrInvalidPoints() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidPoints,
		"Points must not be negative.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeContestOver = "contest_over"

func newErrContestOver() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestOver,
		"This contest has already ended.",
	).SetHttpStatusCode(http.StatusConflict)
}
