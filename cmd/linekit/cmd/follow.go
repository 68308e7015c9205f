package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"linekit/internal/follow"
	"linekit/internal/state"
)

func newFollowCmd(a *app) *cobra.Command {
	var (
		resume    bool
		fromStart bool
		noWatch   bool
		numbers   bool
	)
	c := &cobra.Command{
		Use:   "follow FILE",
		Short: "Print lines as they are appended to FILE",
		Long: `Print lines as they are appended to FILE until interrupted.

The file is re-read whenever it changes and at every poll interval. When
it shrinks it is treated as rewritten and printed again from line 1.
Progress is checkpointed so --resume continues where the last run stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}
			stateFile, err := a.cfg.StateFile()
			if err != nil {
				return err
			}

			opts := []follow.Option{
				follow.WithPollInterval(time.Duration(a.cfg.Follow.PollInterval)),
				follow.WithStore(state.NewFileStore(stateFile)),
			}
			if resume {
				opts = append(opts, follow.WithResume())
			}
			if fromStart {
				opts = append(opts, follow.FromStart())
			}
			if noWatch {
				opts = append(opts, follow.WithoutWatch())
			}

			f := follow.New(a.table(nil).Editor(), path, opts...)
			done := make(chan error, 1)
			go func() { done <- f.Run(cmd.Context()) }()

			slog.Debug("following", "path", path, "state", stateFile)
			w := cmd.OutOrStdout()
			for b := range f.Batches() {
				for i, line := range b.Lines {
					if numbers {
						fmt.Fprintf(w, "%d\t%s\n", b.From+i, line)
					} else {
						fmt.Fprintln(w, line)
					}
				}
			}
			return <-done
		},
	}
	c.Flags().BoolVar(&resume, "resume", false, "continue from the last checkpoint of FILE")
	c.Flags().BoolVar(&fromStart, "from-start", false, "print the existing lines first")
	c.Flags().BoolVar(&noWatch, "no-watch", false, "only poll, do not use file system notifications")
	c.Flags().BoolVarP(&numbers, "line-numbers", "n", false, "prefix every line with its number")
	return c
}
