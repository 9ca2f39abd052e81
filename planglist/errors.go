package planglist

import (
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

const ErrCodeInvalidProgLang = "invalid_programming_language"

func ErrInvalidProgLang() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidProgLang,
		"Unsupported programming language",
	).SetHttpStatusCode(http.StatusBadRequest)
}
