package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"linekit/internal/flock"
	"linekit/internal/follow"
	"linekit/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a table interactively",
		Long: `Browse FILE as a table. The first line is the column header.

Keys: ↑/↓ move, y copies the selected line, d deletes it, r reloads,
q quits. The view reloads when the file changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dryRun {
				slog.Warn("--dry-run has no effect on view")
			}
			return tui.Run(cmd.Context(), args[0], a.table(nil), a.viewOptions(),
				follow.WithPollInterval(time.Duration(a.cfg.Follow.PollInterval)),
				// Log lines would draw over the alternate screen.
				follow.WithLogger(slog.New(slog.DiscardHandler)),
			)
		},
	}
}

// viewOptions sizes the viewer from the config. Deletes made in the viewer
// take the same lock as the edit commands.
func (a *app) viewOptions() tui.Options {
	opts := tui.Options{
		Height:      a.cfg.View.Height,
		ColumnWidth: a.cfg.View.ColumnWidth,
	}
	if a.locking() {
		opts.Lock = flock.With
	}
	return opts
}
