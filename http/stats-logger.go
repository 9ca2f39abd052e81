package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
)

type endpointStats struct {
	count     int
	totalTime time.Duration
}

// statsLogger periodically logs request counts and mean latency per
// route pattern.
type statsLogger struct {
	stats         map[string]*endpointStats
	mu            sync.Mutex
	flushInterval time.Duration
	clock         clockwork.Clock
	logger        *slog.Logger
}

func newStatsLogger(flushInterval time.Duration) *statsLogger {
	return &statsLogger{
		stats:         make(map[string]*endpointStats),
		flushInterval: flushInterval,
		clock:         clockwork.NewRealClock(),
		logger:        slog.Default().With("module", "http-stats"),
	}
}

func (sl *statsLogger) run(ctx context.Context) {
	ticker := sl.clock.NewTicker(sl.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			sl.flushStats()
			return
		case <-ticker.Chan():
			sl.flushStats()
		}
	}
}

// flushStats logs and resets the counters, returning what was logged.
func (sl *statsLogger) flushStats() map[string]int {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	flushed := make(map[string]int)
	for endpoint, stats := range sl.stats {
		if stats.count == 0 {
			continue
		}
		avgTimeMs := float64(stats.totalTime.Microseconds()) / float64(stats.count) / 1000.0
		sl.logger.Info("endpoint stats",
			"endpoint", endpoint,
			"count", stats.count,
			"avg_time_ms", fmt.Sprintf("%.2f", avgTimeMs),
			"period", sl.flushInterval,
		)
		flushed[endpoint] = stats.count
		stats.count = 0
		stats.totalTime = 0
	}
	return flushed
}

func (sl *statsLogger) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := sl.clock.Now()

		next.ServeHTTP(w, r)

		duration := sl.clock.Since(start)

		// the route pattern is only known after routing
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		endpoint := r.Method + " " + pattern

		sl.mu.Lock()
		if _, exists := sl.stats[endpoint]; !exists {
			sl.stats[endpoint] = &endpointStats{}
		}
		sl.stats[endpoint].count++
		sl.stats[endpoint].totalTime += duration
		sl.mu.Unlock()
	})
}
