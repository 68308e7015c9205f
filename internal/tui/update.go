package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"linekit/internal/follow"
)

// Message types for the Bubbletea update loop.
type changedMsg follow.Batch
type followStoppedMsg struct{}

// watchFileCmd waits for the next batch of appended lines.
func watchFileCmd(f *follow.Follower) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-f.Batches()
		if !ok {
			return followStoppedMsg{}
		}
		return changedMsg(b)
	}
}

// Update handles all Bubbletea update logic for the viewer.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case changedMsg:
		return handleChangedMsg(m, msg)
	case followStoppedMsg:
		m.follower = nil
		return m, nil
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	k := msg.String()

	switch m.ActiveView {
	case ViewQuitting:
		return m, nil

	case ViewConfirmDelete:
		switch k {
		case "y", "enter":
			n := m.selectedLine()
			err := m.lock(m.path, func() error {
				return m.tbl.DeleteRow(m.path, n)
			})
			if err != nil {
				m.status = fmt.Sprintf("Error: %v", err)
			} else {
				m.status = fmt.Sprintf("Deleted line %d", n)
			}
			m.ActiveView = ViewTable
			return m.reload(), nil
		case "ctrl+c":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		default:
			m.status = "Delete cancelled"
			m.ActiveView = ViewTable
			return m, nil
		}

	case ViewTable:
		switch k {
		case "ctrl+c", "q":
			m.ActiveView = ViewQuitting
			return m, tea.Quit
		case "r":
			m.status = "Reloaded"
			return m.reload(), nil
		case "d":
			if m.selectedLine() == 0 {
				m.status = "No row to delete"
				return m, nil
			}
			m.ActiveView = ViewConfirmDelete
			return m, nil
		case "y":
			n := m.selectedLine()
			if n == 0 {
				m.status = "No row to copy"
				return m, nil
			}
			if err := m.copy(m.records[n-1].String()); err != nil {
				m.status = fmt.Sprintf("Error: clipboard: %v", err)
			} else {
				m.status = fmt.Sprintf("Copied line %d", n)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func handleChangedMsg(m model, msg changedMsg) (model, tea.Cmd) {
	m = m.reload()
	if msg.Truncated {
		m.status = "File rewritten"
	} else {
		m.status = fmt.Sprintf("%d new line(s) from line %d", len(msg.Lines), msg.From)
	}
	if m.follower != nil {
		return m, watchFileCmd(m.follower)
	}
	return m, nil
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	// Leave room for the border, header and status line.
	m.grid.SetHeight(max(msg.Height-6, 3))
	m.grid.SetWidth(max(msg.Width-4, 10))
	return m, nil
}
