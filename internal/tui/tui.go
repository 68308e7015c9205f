// Package tui is an interactive viewer for delimited files.
//
// The first line is shown as the column header. Rows can be browsed,
// copied to the clipboard and deleted; the view reloads when the file
// changes on disk.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"linekit/internal/follow"
	csvtable "linekit/pkg/table"
)

// Init starts listening for file changes.
func (m model) Init() tea.Cmd {
	if m.follower != nil {
		return watchFileCmd(m.follower)
	}
	return nil
}

// Run shows the viewer for path until the user quits or ctx is done.
// followOpts configure the follower that reloads the view on change.
func Run(ctx context.Context, path string, tbl *csvtable.Table, opts Options, followOpts ...follow.Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := InitialModel(path, tbl, opts)
	m.follower = follow.New(tbl.Editor(), path, followOpts...)
	followErr := make(chan error, 1)
	go func() { followErr <- m.follower.Run(ctx) }()

	p := tea.NewProgram(&teaModelAdapter{m}, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	if ferr := <-followErr; ferr != nil {
		slog.Warn("stopped watching file", "path", path, "err", ferr)
	}
	return err
}

// teaModelAdapter adapts model to tea.Model using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
