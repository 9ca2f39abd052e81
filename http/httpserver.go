package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/royal-judge/backend/contestsrvc"
	contesthttp "github.com/royal-judge/backend/contestsrvc/http"
	"github.com/royal-judge/backend/httpjson"
	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	submhttp "github.com/royal-judge/backend/submsrvc/http"
	"github.com/royal-judge/backend/user"
	"github.com/royal-judge/backend/user/auth"
	userhttp "github.com/royal-judge/backend/user/http"
)

type judgeStats interface {
	Stats() judge.Stats
}

type Options struct {
	JwtKey      []byte
	CorsOrigins []string
	LogLevel    slog.Level
	// StatsInterval is how often per-endpoint timings are logged; zero
	// disables the stats logger.
	StatsInterval time.Duration
}

type HttpServer struct {
	submSrvc *submsrvc.SubmSrvc
	judge    judgeStats
	router   *chi.Mux
	logger   *slog.Logger
	stats    *statsLogger
}

func NewHttpServer(
	userSrvc *user.UserSrvc,
	contestSrvc *contestsrvc.ContestSrvc,
	submSrvc *submsrvc.SubmSrvc,
	judge judgeStats,
	opts Options,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("royal-judge", httplog.Options{
		LogLevel:         opts.LogLevel,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		Tags: map[string]string{
			"service": "royal-judge",
		},
	})
	router.Use(httplog.RequestLogger(logger))
	router.Use(requestContextLogger)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	server := &HttpServer{
		submSrvc: submSrvc,
		judge:    judge,
		router:   router,
		logger:   slog.Default().With("module", "http"),
	}

	if opts.StatsInterval > 0 {
		server.stats = newStatsLogger(opts.StatsInterval)
		router.Use(server.stats.middleware)
	}

	router.Use(auth.GetJwtAuthMiddleware(opts.JwtKey))

	userhttp.NewUserHttpHandler(userSrvc, opts.JwtKey).RegisterRoutes(router)
	contesthttp.NewContestHttpHandler(contestSrvc).RegisterRoutes(router)
	submhttp.NewSubmHttpHandler(submSrvc).RegisterRoutes(router)
	server.routes()

	return server
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Get("/health", httpserver.health)
	r.Get("/judge/stats", httpserver.judgeStats)
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (httpserver *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           httpserver.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if httpserver.stats != nil {
		go httpserver.stats.run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		httpserver.logger.Info("listening", "address", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (httpserver *HttpServer) health(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, map[string]string{"status": "ok"})
}

type judgeStatsResponse struct {
	Judge    judge.Stats        `json:"judge"`
	Verdicts subm.VerdictCounts `json:"verdicts"`
}

func (httpserver *HttpServer) judgeStats(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, judgeStatsResponse{
		Judge:    httpserver.judge.Stats(),
		Verdicts: httpserver.submSrvc.Stats(),
	})
}
