package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00"))
	frameStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555"))
)

// ModelView renders the viewer.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewQuitting:
		return ""
	case ViewConfirmDelete:
		return lipgloss.JoinVertical(lipgloss.Left, tableView(m), confirmView(m))
	default:
		return lipgloss.JoinVertical(lipgloss.Left, tableView(m), statusView(m))
	}
}

func tableView(m model) string {
	rows := 0
	if len(m.records) > 0 {
		rows = len(m.records) - 1
	}
	title := titleStyle.Render(fmt.Sprintf("%s  (%d rows)", m.path, rows))
	return lipgloss.JoinVertical(lipgloss.Left, title, frameStyle.Render(m.grid.View()))
}

func statusView(m model) string {
	help := "↑/↓ move • y copy • d delete • r reload • q quit"
	if m.status == "" {
		return statusStyle.Render(help)
	}
	style := statusStyle
	if strings.HasPrefix(m.status, "Error:") {
		style = errorStyle
	}
	return style.Render(m.status) + "\n" + statusStyle.Render(help)
}

func confirmView(m model) string {
	return promptStyle.Render(fmt.Sprintf("Delete line %d? (y/N)", m.selectedLine()))
}
