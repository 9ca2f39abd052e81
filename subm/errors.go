package subm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

var (
	ErrNotFound          = errors.New("submission not found")
	ErrIllegalTransition = errors.New("illegal verdict transition")
	ErrDuplicateID       = errors.New("duplicate submission id")
	ErrInvalidVerdict    = errors.New("invalid verdict")
)

func illegalTransition(id string, from, to Verdict) error {
	return fmt.Errorf("%w: %s %q -> %q", ErrIllegalTransition, id, from, to)
}

const ErrCodeSubmNotFound = "submission_not_found"

func ErrSubmNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmNotFound,
		"Submission not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
