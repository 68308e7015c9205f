package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linekit/internal/follow"
	"linekit/pkg/editor"
	"linekit/pkg/fsys"
	"linekit/pkg/linestore"
	csvtable "linekit/pkg/table"
)

const people = "/people.csv"

func newTestModel(t *testing.T, content string) (model, *fsys.MemFS, *[]string) {
	t.Helper()
	m := fsys.NewMemFS()
	m.AddFile(people, content)
	tbl := csvtable.New(editor.New(linestore.New(m)))

	mdl := InitialModel(people, tbl, Options{Height: 10, ColumnWidth: 8})
	var copied []string
	mdl.copy = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	return mdl, m, &copied
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = Update(m, msg)
	}
	return m, cmd
}

func content(t *testing.T, m *fsys.MemFS) string {
	t.Helper()
	data, err := m.ReadFile(people)
	require.NoError(t, err)
	return string(data)
}

func TestInitialModel(t *testing.T) {
	m, _, _ := newTestModel(t, "id,name\n1,alice\n2,bob,extra\n")

	cols := m.grid.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Title)
	assert.Equal(t, "name", cols[1].Title)
	assert.Equal(t, "#2", cols[2].Title)
	assert.Equal(t, 8, cols[0].Width)

	rows := m.grid.Rows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 3, "short rows are padded to the column count")
	assert.Equal(t, 2, m.selectedLine())

	view := ModelView(m)
	assert.Contains(t, view, people)
	assert.Contains(t, view, "(2 rows)")
}

func TestYankCopiesSelectedLine(t *testing.T) {
	m, _, copied := newTestModel(t, "id,name\n1,alice\n2,bob\n")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown}, key("y"))

	assert.Equal(t, []string{"2,bob"}, *copied)
	assert.Equal(t, "Copied line 3", m.status)
}

func TestYankClipboardError(t *testing.T) {
	m, _, _ := newTestModel(t, "id\n1\n")
	m.copy = func(string) error { return errors.New("no clipboard") }

	m, _ = send(m, key("y"))
	assert.True(t, strings.HasPrefix(m.status, "Error:"))
}

func TestDeleteRow(t *testing.T) {
	m, fs, _ := newTestModel(t, "id,name\n1,alice\n2,bob\n3,carol\n")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown}, key("d"))
	require.Equal(t, ViewConfirmDelete, m.ActiveView)
	assert.Contains(t, ModelView(m), "Delete line 3?")

	m, _ = send(m, key("y"))
	assert.Equal(t, ViewTable, m.ActiveView)
	assert.Equal(t, "id,name\n1,alice\n3,carol\n", content(t, fs))
	assert.Len(t, m.grid.Rows(), 2)
	assert.Equal(t, "Deleted line 3", m.status)
}

func TestDeleteRow_HoldsLock(t *testing.T) {
	m, fs, _ := newTestModel(t, "id\n1\n2\n")
	var locked []string
	m.lock = func(path string, edit func() error) error {
		locked = append(locked, path)
		return edit()
	}

	m, _ = send(m, key("d"), key("y"))
	assert.Equal(t, []string{people}, locked)
	assert.Equal(t, "id\n2\n", content(t, fs))
	assert.Equal(t, "Deleted line 2", m.status)
}

func TestDeleteRow_LockFails(t *testing.T) {
	const csv = "id\n1\n"
	m, fs, _ := newTestModel(t, csv)
	m.lock = func(string, func() error) error { return errors.New("locked elsewhere") }

	m, _ = send(m, key("d"), key("y"))
	assert.Equal(t, csv, content(t, fs))
	assert.Equal(t, "Error: locked elsewhere", m.status)
}

func TestDeleteRow_Cancel(t *testing.T) {
	const csv = "id\n1\n"
	m, fs, _ := newTestModel(t, csv)

	m, _ = send(m, key("d"), key("n"))
	assert.Equal(t, ViewTable, m.ActiveView)
	assert.Equal(t, csv, content(t, fs))
	assert.Equal(t, "Delete cancelled", m.status)
}

func TestDeleteRow_HeaderOnly(t *testing.T) {
	m, _, _ := newTestModel(t, "id,name\n")

	m, _ = send(m, key("d"))
	assert.Equal(t, ViewTable, m.ActiveView)
	assert.Equal(t, "No row to delete", m.status)
}

func TestReload(t *testing.T) {
	m, fs, _ := newTestModel(t, "id\n1\n")
	fs.AddFile(people, "id\n1\n2\n3\n")

	m, _ = send(m, key("r"))
	assert.Len(t, m.grid.Rows(), 3)
	assert.Equal(t, "Reloaded", m.status)
}

func TestReload_MissingFile(t *testing.T) {
	m, _, _ := newTestModel(t, "id\n1\n")
	m.path = "/gone.csv"

	m, _ = send(m, key("r"))
	assert.True(t, strings.HasPrefix(m.status, "Error:"))
	assert.Empty(t, m.grid.Rows())
	assert.Contains(t, ModelView(m), "Error:")
}

func TestChangedMsgReloads(t *testing.T) {
	m, fs, _ := newTestModel(t, "id\n1\n")
	fs.AddFile(people, "id\n1\n2\n")

	m, cmd := send(m, changedMsg(follow.Batch{Path: people, From: 3, Lines: []string{"2"}}))
	assert.Nil(t, cmd, "no follower, nothing to wait for")
	assert.Len(t, m.grid.Rows(), 2)
	assert.Equal(t, "1 new line(s) from line 3", m.status)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, "id\n")

	m, cmd := send(m, key("q"))
	assert.Equal(t, ViewQuitting, m.ActiveView)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, ModelView(m))
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t, "id\n1\n")

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, 96, m.grid.Width())
}
