package submsrvc

import (
	"fmt"
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

const ErrCodeSubmissionTooLong = "submission_too_long"

func ErrSubmissionTooLong(maxSubmLengthKB int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionTooLong,
		fmt.Sprintf("Submission code is too long, the maximum length is %d KB", maxSubmLengthKB),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSubmissionEmpty = "submission_empty"

func ErrSubmissionEmpty() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionEmpty,
		"Submission code must not be empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeMissingField = "missing_field"

func ErrMissingField(field string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMissingField,
		fmt.Sprintf("Field %q is required", field),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeProblemNotFound = "problem_not_found"

func ErrProblemNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		"The requested problem was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeUserNotFound = "user_not_found"

func ErrUserNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUserNotFound,
		"The specified user was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
