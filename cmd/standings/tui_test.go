package main

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/jonboulle/clockwork"
	"github.com/royal-judge/backend/client"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/poller"
	"github.com/stretchr/testify/assert"
)

func TestProblemCell(t *testing.T) {
	tests := map[string]contest.ProblemStatus{
		"":   {},
		"-2": {Attempts: 2},
		"+":  {Solved: true, Attempts: 1},
		"+3": {Solved: true, Attempts: 4},
	}
	for want, st := range tests {
		assert.Equal(t, want, problemCell(st))
	}
}

func TestRankingRowsFollowProblemOrder(t *testing.T) {
	rows := rankingRows([]contest.Row{{
		Rank: 1, Username: "CodeMaster", ProblemsSolved: 1, Penalty: 25,
		ProblemStatus: map[string]contest.ProblemStatus{"p2": {Solved: true, Attempts: 2}},
	}}, []string{"p1", "p2"})
	assert.Equal(t, []table.Row{{"1", "CodeMaster", "1", "25", "", "+1"}}, rows)
}

func TestRankingArrivesBeforeContest(t *testing.T) {
	m := newStandingsModel(context.Background(), client.New("http://localhost"),
		poller.New(clockwork.NewFakeClock()), "c1", "")
	rows := []contest.Row{{Rank: 1, Username: "TheLurker",
		ProblemStatus: map[string]contest.ProblemStatus{"p1": {Attempts: 1}}}}

	next, _ := m.Update(rankingMsg{rows: rows, at: time.Now()})
	next, _ = next.Update(contestMsg{contest: &contest.Contest{
		ID: "c1", Title: "Royal Rumble - I", Problems: []contest.Problem{{ID: "p1"}},
	}})

	got := next.(standingsModel)
	assert.Equal(t, []table.Row{{"1", "TheLurker", "0", "0", "-1"}}, got.ranking.Rows())
	assert.Contains(t, got.View(), "Royal Rumble - I")
}
