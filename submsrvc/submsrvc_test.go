package submsrvc_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/royal-judge/backend/judge"
	"github.com/royal-judge/backend/planglist"
	"github.com/royal-judge/backend/srvcerror"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	"github.com/royal-judge/backend/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSrvcErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var srvcErr *srvcerror.Error
	require.True(t, errors.As(err, &srvcErr), "expected srvcerror, got %v", err)
	assert.Equal(t, code, srvcErr.ErrorCode())
}

func TestSubmitSolValidation(t *testing.T) {
	valid := submsrvc.SubmitParams{UserID: "user-1", ProblemID: "p1", Language: "Python", Code: "print(1)"}
	with := func(edit func(p *submsrvc.SubmitParams)) submsrvc.SubmitParams {
		p := valid
		edit(&p)
		return p
	}

	tests := []struct {
		name string
		p    submsrvc.SubmitParams
		code string
	}{
		{"missing user", with(func(p *submsrvc.SubmitParams) { p.UserID = "" }), submsrvc.ErrCodeMissingField},
		{"missing problem", with(func(p *submsrvc.SubmitParams) { p.ProblemID = "" }), submsrvc.ErrCodeMissingField},
		{"missing language", with(func(p *submsrvc.SubmitParams) { p.Language = "" }), submsrvc.ErrCodeMissingField},
		{"blank code", with(func(p *submsrvc.SubmitParams) { p.Code = " \n\t" }), submsrvc.ErrCodeSubmissionEmpty},
		{"code too long", with(func(p *submsrvc.SubmitParams) { p.Code = strings.Repeat("a", 64*1024+1) }), submsrvc.ErrCodeSubmissionTooLong},
		{"unsupported language", with(func(p *submsrvc.SubmitParams) { p.Language = "Brainfuck" }), planglist.ErrCodeInvalidProgLang},
		{"unknown user", with(func(p *submsrvc.SubmitParams) { p.UserID = "user-404" }), submsrvc.ErrCodeUserNotFound},
		{"unknown problem", with(func(p *submsrvc.SubmitParams) { p.ProblemID = "p404" }), submsrvc.ErrCodeProblemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := judge.NewManualTimeline(t0)
			store := newStore(tl)
			queue := &enqueuerMock{}
			srvc := submsrvc.NewSubmSrvc(store, queue, knownProblems(), knownUsers())

			s, err := srvc.SubmitSol(context.Background(), tt.p)
			requireSrvcErrCode(t, err, tt.code)
			assert.Nil(t, s)
			assert.Empty(t, store.List(), "nothing is stored on a rejected submit")
			assert.Empty(t, queue.ids)
		})
	}
}

func TestSubmitSolCreatesPendingAndEnqueues(t *testing.T) {
	tl := judge.NewManualTimeline(t0)
	store := newStore(tl)
	queue := &enqueuerMock{}
	srvc := submsrvc.NewSubmSrvc(store, queue, knownProblems(), knownUsers())

	s, err := srvc.SubmitSol(context.Background(), submsrvc.SubmitParams{
		UserID: "user-2", ProblemID: "p2", Language: "C++", Code: "int main() {}",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, subm.Pending, s.Verdict)
	assert.Equal(t, "CodeMaster", s.Username)
	assert.Equal(t, "Reverse a String", s.ProblemTitle)
	assert.Equal(t, t0, s.SubmittedAt)
	assert.Equal(t, []string{"s1"}, queue.ids)

	got, err := srvc.GetSubm(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSubmitSolPropagatesDirectoryFailure(t *testing.T) {
	tl := judge.NewManualTimeline(t0)
	users := &userDirMock{getUser: func(context.Context, string) (*user.User, error) {
		return nil, errors.New("directory down")
	}}
	srvc := submsrvc.NewSubmSrvc(newStore(tl), &enqueuerMock{}, knownProblems(), users)

	_, err := srvc.SubmitSol(context.Background(), submsrvc.SubmitParams{
		UserID: "user-1", ProblemID: "p1", Language: "Python", Code: "print(1)",
	})
	require.Error(t, err)
	var srvcErr *srvcerror.Error
	assert.False(t, errors.As(err, &srvcErr))
}

func TestGetSubmAbsent(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	s, err := f.srvc.GetSubm(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestListUserSubmsMostRecentFirst(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	ctx := context.Background()

	first := f.submit(t)
	f.tl.Advance(time.Minute)
	second := f.submit(t)

	list, err := f.srvc.ListUserSubms(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)

	none, err := f.srvc.ListUserSubms(ctx, "user-2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestHandlerViewsDelegate(t *testing.T) {
	f := newJudgedFixture(t, subm.Accepted)
	ctx := context.Background()

	s, err := f.srvc.Submit.Handle(ctx, submsrvc.SubmitParams{
		UserID: "user-1", ProblemID: "p1", Language: "Python", Code: "print(1)",
	})
	require.NoError(t, err)

	got, err := f.srvc.Get.Handle(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	list, err := f.srvc.ListUser.Handle(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
