package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/app"
	"github.com/royal-judge/backend/client"
	"github.com/royal-judge/backend/conf"
	"github.com/royal-judge/backend/poller"
	"github.com/royal-judge/backend/subm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer runs the whole app on real time with the judge sped up.
func newServer(t *testing.T) *client.Client {
	t.Helper()
	a, err := app.New(&conf.Config{
		JwtKey:      "test-key",
		CorsOrigins: []string{"http://*"},
		LogLevel:    "error",
		Judge: conf.JudgeConfig{
			Tick:             10 * time.Millisecond,
			CompileDelay:     15 * time.Millisecond,
			RunDelay:         25 * time.Millisecond,
			ReferenceProblem: "p1",
		},
	})
	require.NoError(t, err)
	a.Judge.Start()
	t.Cleanup(a.Judge.Shutdown)

	srv := httptest.NewServer(a.Server.Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/").WithHTTPClient(srv.Client())
}

func TestLogin(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	_, err := c.Login(ctx, "admin@royaljudge.com", "wrong-password")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Code)

	u, err := c.Login(ctx, "admin@royaljudge.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-2", u.ID)
	assert.Equal(t, "CodeMaster", u.Username)
	assert.Equal(t, "admin", u.Role)
}

func TestContestsAndRanking(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	list, err := c.ListContests(ctx)
	require.NoError(t, err)
	assert.Len(t, append(append(list.Active, list.Upcoming...), list.Past...), 3)
	require.Len(t, list.Upcoming, 1)
	assert.Equal(t, "c3", list.Upcoming[0].ID)

	got, err := c.GetContest(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"p1", "p2"}, got.ProblemIDs())

	missing, err := c.GetContest(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, err := c.GetRanking(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CodeMaster", rows[0].Username)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "TheLurker", rows[1].Username)
}

func TestSubmitAndPollToVerdict(t *testing.T) {
	c := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.Submit(ctx, "p1", "Python", "print(3)")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.Login(ctx, "user@royaljudge.com", "password123")
	require.NoError(t, err)

	s, err := c.Submit(ctx, "p1", "Python", "a, b = map(int, input().split())\nprint(a + b)")
	require.NoError(t, err)
	assert.Equal(t, subm.Pending, s.Verdict)
	assert.Equal(t, "TheLurker", s.Username)

	var seen []subm.Verdict
	final, err := poller.New(clockwork.NewRealClock()).Submission(ctx, 5*time.Millisecond,
		c.GetSubmission, s.ID, func(s subm.Subm) { seen = append(seen, s.Verdict) })
	require.NoError(t, err)
	assert.Equal(t, subm.Accepted, final.Verdict)
	assert.Equal(t, subm.Accepted, seen[len(seen)-1])

	mine, err := c.ListUserSubmissions(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, mine)
	assert.Equal(t, s.ID, mine[0].ID)

	gone, err := c.GetSubmission(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
