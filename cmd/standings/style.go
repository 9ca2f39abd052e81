package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/royal-judge/backend/subm"
)

var (
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	violet = lipgloss.NewStyle().Foreground(lipgloss.Color("#e056fd"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	grey   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f1c40f"))
)

func verdictStyle(v subm.Verdict) lipgloss.Style {
	switch {
	case v == subm.Accepted:
		return green
	case v.IsTerminal():
		return red
	default:
		return blue
	}
}

func b(format string, a ...any) string {
	return blue.Render(fmt.Sprintf(format, a...))
}

func v(format string, a ...any) string {
	return violet.Render(fmt.Sprintf(format, a...))
}
