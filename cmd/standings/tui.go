package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/royal-judge/backend/client"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/poller"
	"github.com/royal-judge/backend/subm"
)

type focus int

const (
	focusRanking focus = iota
	focusSubms
)

type contestMsg struct {
	contest *contest.Contest
	err     error
}

type rankingMsg struct {
	rows []contest.Row
	at   time.Time
	err  error
}

type submsMsg struct {
	subms []subm.Subm
	err   error
}

// standingsModel shows the ranking of one contest and, when logged in,
// the user's own submissions. Both refresh on their own cadence.
type standingsModel struct {
	ctx    context.Context
	client *client.Client
	poller *poller.Poller
	msgs   chan tea.Msg

	contestID string
	userID    string
	contest   *contest.Contest
	rows      []contest.Row

	ranking   table.Model
	subms     table.Model
	focus     focus
	updatedAt time.Time
	err       error
}

func newStandingsModel(ctx context.Context, c *client.Client, p *poller.Poller, contestID, userID string) standingsModel {
	return standingsModel{
		ctx:       ctx,
		client:    c,
		poller:    p,
		msgs:      make(chan tea.Msg, 8),
		contestID: contestID,
		userID:    userID,
		ranking:   newTable(rankingColumns(nil), 12, true),
		subms:     newTable(submColumns(), 8, false),
	}
}

func newTable(cols []table.Column, height int, focused bool) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(height),
		table.WithFocused(focused),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

func rankingColumns(problemIDs []string) []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "User", Width: 16},
		{Title: "Solved", Width: 7},
		{Title: "Penalty", Width: 8},
	}
	for _, id := range problemIDs {
		cols = append(cols, table.Column{Title: id, Width: 5})
	}
	return cols
}

func submColumns() []table.Column {
	return []table.Column{
		{Title: "Submitted", Width: 20},
		{Title: "Problem", Width: 22},
		{Title: "Language", Width: 10},
		{Title: "Verdict", Width: 22},
	}
}

// problemCell renders a ranking cell the usual ICPC way: "+" or "+k"
// for solved after k rejected tries, "-k" for k rejected tries.
func problemCell(st contest.ProblemStatus) string {
	switch {
	case st.Solved && st.Attempts <= 1:
		return "+"
	case st.Solved:
		return "+" + strconv.Itoa(st.Attempts-1)
	case st.Attempts > 0:
		return "-" + strconv.Itoa(st.Attempts)
	default:
		return ""
	}
}

func rankingRows(rows []contest.Row, problemIDs []string) []table.Row {
	res := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		row := table.Row{
			strconv.Itoa(r.Rank),
			r.Username,
			strconv.Itoa(r.ProblemsSolved),
			strconv.Itoa(r.Penalty),
		}
		for _, id := range problemIDs {
			row = append(row, problemCell(r.ProblemStatus[id]))
		}
		res = append(res, row)
	}
	return res
}

func submRows(subms []subm.Subm) []table.Row {
	res := make([]table.Row, 0, len(subms))
	for _, s := range subms {
		res = append(res, table.Row{
			s.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
			s.ProblemTitle,
			s.Language,
			string(s.Verdict),
		})
	}
	return res
}

func (m standingsModel) Init() tea.Cmd {
	go m.poll()
	return tea.Batch(m.fetchContest, m.next)
}

// poll feeds refreshed data into msgs until ctx is done.
func (m standingsModel) poll() {
	go m.poller.Every(m.ctx, poller.RankingInterval, func(ctx context.Context) error {
		rows, err := m.client.GetRanking(ctx, m.contestID)
		m.send(rankingMsg{rows: rows, at: time.Now(), err: err})
		return err
	})
	if m.userID == "" {
		return
	}
	m.poller.Every(m.ctx, poller.SubmListInterval, func(ctx context.Context) error {
		subms, err := m.client.ListUserSubmissions(ctx, m.userID)
		m.send(submsMsg{subms: subms, err: err})
		return err
	})
}

func (m standingsModel) send(msg tea.Msg) {
	select {
	case m.msgs <- msg:
	case <-m.ctx.Done():
	}
}

// next waits for the next message from the pollers.
func (m standingsModel) next() tea.Msg {
	select {
	case msg := <-m.msgs:
		return msg
	case <-m.ctx.Done():
		return nil
	}
}

func (m standingsModel) fetchContest() tea.Msg {
	c, err := m.client.GetContest(m.ctx, m.contestID)
	if err == nil && c == nil {
		err = fmt.Errorf("contest %s not found", m.contestID)
	}
	return contestMsg{contest: c, err: err}
}

func (m standingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case contestMsg:
		m.err = msg.err
		if msg.contest != nil {
			m.contest = msg.contest
			ids := msg.contest.ProblemIDs()
			m.ranking.SetRows(nil)
			m.ranking.SetColumns(rankingColumns(ids))
			m.ranking.SetRows(rankingRows(m.rows, ids))
		}
		return m, nil
	case rankingMsg:
		m.err = msg.err
		if msg.err == nil {
			var ids []string
			if m.contest != nil {
				ids = m.contest.ProblemIDs()
			}
			m.rows = msg.rows
			m.ranking.SetRows(rankingRows(msg.rows, ids))
			m.updatedAt = msg.at
		}
		return m, m.next
	case submsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.subms.SetRows(submRows(msg.subms))
		}
		return m, m.next
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.userID == "" {
				return m, nil
			}
			if m.focus == focusRanking {
				m.focus = focusSubms
				m.ranking.Blur()
				m.subms.Focus()
			} else {
				m.focus = focusRanking
				m.subms.Blur()
				m.ranking.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusRanking {
		m.ranking, cmd = m.ranking.Update(msg)
	} else {
		m.subms, cmd = m.subms.Update(msg)
	}
	return m, cmd
}

func (m standingsModel) View() string {
	var sb strings.Builder
	name := m.contestID
	if m.contest != nil {
		name = m.contest.Title
	}
	sb.WriteString(title.Render(name) + "\n")
	if !m.updatedAt.IsZero() {
		sb.WriteString(grey.Render("updated "+m.updatedAt.Format("15:04:05")) + "\n")
	}
	sb.WriteString(m.ranking.View() + "\n")

	if m.userID != "" {
		sb.WriteString("\n" + b("Your submissions") + "\n")
		sb.WriteString(m.subms.View() + "\n")
	}
	if m.err != nil {
		sb.WriteString(red.Render("error: "+m.err.Error()) + "\n")
	}

	help := "Press " + v("q") + " to quit"
	if m.userID != "" {
		help += ", " + v("tab") + " to switch tables"
	}
	sb.WriteString(help + "\n")
	return sb.String()
}
