package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/royal-judge/backend/logger"
	"github.com/stretchr/testify/assert"
)

func TestRequestContextLoggerCarriesRequestID(t *testing.T) {
	var got *slog.Logger
	h := middleware.RequestID(requestContextLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotNil(t, got)
	assert.NotSame(t, slog.Default(), got)
}

func TestRequestContextLoggerWithoutRequestID(t *testing.T) {
	var got *slog.Logger
	h := requestContextLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Same(t, slog.Default(), got)
}
