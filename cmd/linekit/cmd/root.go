package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"linekit/internal/config"
	"linekit/internal/logger"
	"linekit/pkg/lineerr"
)

// Exit codes reported by Execute.
const (
	exitOK         = 0
	exitError      = 1
	exitNotFound   = 2
	exitOutOfRange = 3
	exitLength     = 4
)

// app carries the persistent flags and the loaded configuration to every
// subcommand.
type app struct {
	configPath string
	logLevel   string
	dryRun     bool
	noLock     bool

	cfg *config.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.NewDefaultConfig()}

	root := &cobra.Command{
		Use:   "linekit",
		Short: "Edit text files by line number and comma-separated tables by row",
		Long: `linekit reads, appends, inserts, overrides and deletes lines of a text
file by their 1-based line number. The table commands treat every line
as a comma-separated record.

Every edit rewrites the whole file, so files are expected to fit in memory.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $LINEKIT_CONFIG or <config dir>/linekit/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&a.dryRun, "dry-run", false, "apply the edit to an in-memory copy and print the result")
	flags.BoolVar(&a.noLock, "no-lock", false, "do not take the advisory file lock")

	root.AddCommand(
		newLineCmd(a),
		newTableCmd(a),
		newViewCmd(a),
		newFollowCmd(a),
	)
	return root
}

// setup loads the config and configures logging before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Path(a.configPath))
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	return logger.Setup(level)
}

// Execute runs the root command and exits with a code describing the
// failure kind.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case lineerr.IsNotFound(err):
		return exitNotFound
	case lineerr.IsOutOfRange(err):
		return exitOutOfRange
	case lineerr.IsLengthMismatch(err):
		return exitLength
	default:
		return exitError
	}
}

// errArg reports a malformed positional argument.
var errArg = errors.New("invalid argument")

func argError(name, value string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", errArg, name, value, err)
}
