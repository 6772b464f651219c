package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stepCurrent = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("86")).Bold(true).Padding(0, 1)
	stepTodo    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stepArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).SetString(" > ")
)

// RenderSteps draws a one-line progress indicator with current highlighted.
func RenderSteps(labels []string, current int) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		switch {
		case i < current:
			parts[i] = stepDone.Render("✓ " + label)
		case i == current:
			parts[i] = stepCurrent.Render(label)
		default:
			parts[i] = stepTodo.Render(label)
		}
	}
	return strings.Join(parts, stepArrow.String())
}
