package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"linekit/internal/follow"
	"linekit/pkg/record"
	csvtable "linekit/pkg/table"
)

// View identifies the screen being shown.
type View int

const (
	ViewTable View = iota
	ViewConfirmDelete
	ViewQuitting
)

// Options sizes the viewer and sets how edits are locked.
type Options struct {
	Height      int
	ColumnWidth int
	// Lock runs an edit of path while holding its lock. Nil runs the edit
	// unlocked.
	Lock func(path string, edit func() error) error
}

// model is the Bubbletea model for the table viewer.
type model struct {
	path    string
	tbl     *csvtable.Table
	records []record.Record // header first
	grid    table.Model

	ActiveView View
	status     string
	height     int
	width      int
	colWidth   int

	follower *follow.Follower
	// copy writes to the system clipboard; replaced in tests.
	copy func(string) error
	lock func(path string, edit func() error) error
}

// InitialModel loads path and builds the viewer. A load failure is shown in
// the status line rather than returned so the viewer can still be reloaded.
func InitialModel(path string, tbl *csvtable.Table, opts Options) model {
	if opts.Height <= 0 {
		opts.Height = 20
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = 16
	}
	if opts.Lock == nil {
		opts.Lock = func(_ string, edit func() error) error { return edit() }
	}
	grid := table.New(
		table.WithFocused(true),
		table.WithHeight(opts.Height),
	)
	grid.SetStyles(gridStyles())

	m := model{
		path:     path,
		tbl:      tbl,
		grid:     grid,
		height:   opts.Height,
		colWidth: opts.ColumnWidth,
		copy:     clipboard.WriteAll,
		lock:     opts.Lock,
	}
	return m.reload()
}

func gridStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// reload reads the file again and rebuilds columns and rows, keeping the
// cursor where it was when possible.
func (m model) reload() model {
	recs, err := m.tbl.GetTable(m.path)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		recs = nil
	}
	m.records = recs

	ncols := 1
	for _, rec := range recs {
		ncols = max(ncols, len(rec))
	}
	cols := make([]table.Column, ncols)
	for i := range cols {
		title := fmt.Sprintf("#%d", i)
		if len(recs) > 0 && i < len(recs[0]) && recs[0][i] != "" {
			title = recs[0][i]
		}
		cols[i] = table.Column{Title: title, Width: m.colWidth}
	}

	var rows []table.Row
	if len(recs) > 1 {
		rows = make([]table.Row, len(recs)-1)
		for i, rec := range recs[1:] {
			// Every row needs a cell per column.
			row := make(table.Row, ncols)
			copy(row, rec)
			rows[i] = row
		}
	}

	cursor := m.grid.Cursor()
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	m.grid.SetCursor(max(cursor, 0))
	return m
}

// selectedLine returns the 1-based line number of the selected row, or 0
// when there are no data rows.
func (m model) selectedLine() int {
	if len(m.records) < 2 {
		return 0
	}
	return m.grid.Cursor() + 2
}
