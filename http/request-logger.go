package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/royal-judge/backend/logger"
)

// requestContextLogger tags the context logger with the request id set
// by the access log middleware, so service logs can be joined with it.
func requestContextLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logger.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
