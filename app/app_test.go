package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/royal-judge/backend/app"
	"github.com/royal-judge/backend/conf"
	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 8, 1, 10, 30, 0, 0, time.UTC)

func testConfig(snapshot string) *conf.Config {
	return &conf.Config{
		HttpAddr:    "127.0.0.1:0",
		JwtKey:      "test-key",
		CorsOrigins: []string{"http://*"},
		LogLevel:    "error",
		Judge: conf.JudgeConfig{
			Tick:             time.Second,
			CompileDelay:     1500 * time.Millisecond,
			RunDelay:         2500 * time.Millisecond,
			ReferenceProblem: "p1",
		},
		SnapshotFile: snapshot,
	}
}

func acceptAll() app.Option {
	return app.WithDecider(judge.DeciderFunc(func(string, string, string) subm.Verdict {
		return subm.Accepted
	}))
}

func TestNewLoadsSeedAndJudges(t *testing.T) {
	tl := judge.NewManualTimeline(t0)
	a, err := app.New(testConfig(""), app.WithManualTimeline(tl), acceptAll())
	require.NoError(t, err)

	assert.Len(t, a.Store.List(), 4)
	contests, err := a.Contests.ListContests(context.Background())
	require.NoError(t, err)
	assert.Len(t, contests, 3)

	s, err := a.Subms.SubmitSol(context.Background(), submsrvc.SubmitParams{
		UserID: "user-1", ProblemID: "p2", Language: "Python", Code: "print(input()[::-1])",
	})
	require.NoError(t, err)
	assert.Equal(t, subm.Pending, s.Verdict)
	assert.Equal(t, t0, s.SubmittedAt)

	a.Judge.Start()
	tl.Advance(5 * time.Second)

	got, err := a.Subms.GetSubm(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, subm.Accepted, got.Verdict)
	assert.Equal(t, 1, a.Judge.Stats().Judged)

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subms.snap")
	cfg := testConfig(path)

	first, err := app.New(cfg, app.WithManualTimeline(judge.NewManualTimeline(t0)), acceptAll())
	require.NoError(t, err)
	s, err := first.Subms.SubmitSol(context.Background(), submsrvc.SubmitParams{
		UserID: "user-2", ProblemID: "p1", Language: "Python", Code: "print(sum(map(int, input().split())))",
	})
	require.NoError(t, err)
	require.NoError(t, first.SaveSnapshot())
	_, err = os.Stat(path)
	require.NoError(t, err)

	tl := judge.NewManualTimeline(t0.Add(time.Hour))
	second, err := app.New(cfg, app.WithManualTimeline(tl), acceptAll())
	require.NoError(t, err)

	all := second.Store.List()
	require.Len(t, all, 5, "seed submissions are not loaded twice")
	assert.Equal(t, s.ID, all[0].ID)
	assert.Equal(t, subm.Pending, all[0].Verdict)
	assert.Equal(t, 1, second.Judge.Stats().Queued)

	second.Judge.Start()
	tl.Advance(5 * time.Second)
	got, ok := second.Store.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, subm.Accepted, got.Verdict)
}

func TestRunWritesSnapshotOnShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subms.snap")
	a, err := app.New(testConfig(path), acceptAll())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	subms, err := subm.ReadSnapshot(f)
	require.NoError(t, err)
	assert.Len(t, subms, 4)
}

func TestNewRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subms.snap")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))
	_, err := app.New(testConfig(path))
	require.Error(t, err)
}
