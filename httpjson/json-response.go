// Package httpjson writes the {status, data, code, message} envelope
// every endpoint answers with.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// success responses always carry data, even an empty list
type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	ErrCode string `json:"code,omitempty"`
	ErrMsg  string `json:"message"`
}

func writeJson(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Warn("failed to write response", "module", "httpjson", "error", err)
	}
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	writeJson(w, http.StatusOK, successResponse{Status: StatusSuccess, Data: data})
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	writeJson(w, statusCode, errorResponse{Status: StatusError, ErrCode: errCode, ErrMsg: errMsg})
}

// ReadJson decodes the request body into v. A malformed body is reported
// as a bad request error.
func ReadJson(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return srvcerror.ErrBadRequest("malformed request body").SetDebug(err)
	}
	return nil
}

// HandleError answers with the service error's status and message.
// Anything that is not a service error becomes an opaque 500.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var srvcErr *srvcerror.Error
	if !errors.As(err, &srvcErr) {
		logger.Error("internal server error", "error", err)
		WriteErrorJson(w,
			http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError,
			srvcerror.ErrCodeInternalServerError)
		return
	}

	attrs := []any{"error", err, "code", srvcErr.ErrorCode()}
	if srvcErr.DebugInfo() != nil {
		attrs = append(attrs, "debug", srvcErr.DebugInfo())
	}
	if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
		logger.Error("internal server error", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}
	WriteErrorJson(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode())
}
