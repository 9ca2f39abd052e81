package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/royal-judge/backend/client"
	"github.com/royal-judge/backend/poller"
	"github.com/royal-judge/backend/subm"
)

type submittedMsg struct {
	subm *subm.Subm
	err  error
}

type verdictMsg struct {
	subm subm.Subm
}

type finalMsg struct {
	subm subm.Subm
	err  error
}

// submitModel sends one solution and follows it until the judge is done.
type submitModel struct {
	ctx    context.Context
	client *client.Client
	poller *poller.Poller
	msgs   chan tea.Msg

	problemID string
	language  string
	code      string

	spinner spinner.Model
	subm    *subm.Subm
	history []subm.Verdict
	done    bool
	err     error
}

func newSubmitModel(ctx context.Context, c *client.Client, p *poller.Poller, problemID, language, code string) submitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = blue
	return submitModel{
		ctx:       ctx,
		client:    c,
		poller:    p,
		msgs:      make(chan tea.Msg, 4),
		problemID: problemID,
		language:  language,
		code:      code,
		spinner:   s,
	}
}

func (m submitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.submit)
}

func (m submitModel) submit() tea.Msg {
	s, err := m.client.Submit(m.ctx, m.problemID, m.language, m.code)
	return submittedMsg{subm: s, err: err}
}

// follow polls the submission and reports every verdict change.
func (m submitModel) follow(id string) {
	final, err := m.poller.Submission(m.ctx, poller.SubmissionInterval, m.client.GetSubmission, id,
		func(s subm.Subm) {
			select {
			case m.msgs <- verdictMsg{subm: s}:
			case <-m.ctx.Done():
			}
		})
	select {
	case m.msgs <- finalMsg{subm: final, err: err}:
	case <-m.ctx.Done():
	}
}

func (m submitModel) next() tea.Msg {
	select {
	case msg := <-m.msgs:
		return msg
	case <-m.ctx.Done():
		return nil
	}
}

func (m submitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.subm = msg.subm
		go m.follow(msg.subm.ID)
		return m, m.next
	case verdictMsg:
		m.subm = &msg.subm
		m.history = append(m.history, msg.subm.Verdict)
		return m, m.next
	case finalMsg:
		m.done = true
		m.err = msg.err
		if msg.err == nil {
			m.subm = &msg.subm
		}
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m submitModel) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Problem: %s  Language: %s\n", b(m.problemID), b(m.language))

	if m.subm != nil {
		fmt.Fprintf(&sb, "Submission: %s\n", v(m.subm.ID))
	}
	if len(m.history) > 0 {
		steps := make([]string, 0, len(m.history))
		for _, h := range m.history {
			steps = append(steps, verdictStyle(h).Render(string(h)))
		}
		sb.WriteString(strings.Join(steps, grey.Render(" > ")) + "\n")
	}

	switch {
	case m.err != nil:
		sb.WriteString(red.Render("error: "+m.err.Error()) + "\n")
	case m.done && m.subm != nil:
		sb.WriteString("Verdict: " + verdictStyle(m.subm.Verdict).Bold(true).Render(string(m.subm.Verdict)) + "\n")
	default:
		sb.WriteString(m.spinner.View() + " judging...\n")
	}
	return sb.String()
}
