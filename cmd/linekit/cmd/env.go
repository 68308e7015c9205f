package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"linekit/internal/flock"
	"linekit/pkg/editor"
	"linekit/pkg/fsys"
	"linekit/pkg/lineerr"
	"linekit/pkg/linestore"
	csvtable "linekit/pkg/table"
)

// table builds the editing stack over filesystem using the configured file
// settings. A nil filesystem means the local disk.
func (a *app) table(filesystem fsys.FileSystem) *csvtable.Table {
	store := linestore.New(filesystem,
		linestore.WithPerm(fs.FileMode(a.cfg.Files.Perm)),
		linestore.WithMaxLineSize(a.cfg.Files.MaxLineSize),
	)
	return csvtable.New(editor.New(store))
}

func (a *app) locking() bool {
	return !a.noLock && a.cfg.Files.Lock
}

// read runs a read-only command against the local disk.
func (a *app) read(fn func(t *csvtable.Table) error) error {
	return fn(a.table(nil))
}

// edit runs a mutating command on target. inputs are other files the
// command reads. With --dry-run the target and inputs are copied into
// memory, the edit runs there and the resulting target is printed.
// Otherwise the edit runs on disk under the advisory lock of target.
func (a *app) edit(cmd *cobra.Command, target string, inputs []string, fn func(t *csvtable.Table) error) error {
	if a.dryRun {
		return a.dryRunEdit(cmd.OutOrStdout(), target, inputs, fn)
	}
	t := a.table(nil)
	if !a.locking() {
		return fn(t)
	}

	lock, ok, err := flock.TryAcquire(target)
	if err != nil {
		return lineerr.NewPathError("lock", target, err)
	}
	if !ok {
		slog.Info("waiting for lock", "path", target)
		if lock, err = flock.Acquire(target); err != nil {
			return lineerr.NewPathError("lock", target, err)
		}
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Warn("failed to release lock", "path", target, "err", err)
		}
	}()
	return fn(t)
}

func (a *app) dryRunEdit(w io.Writer, target string, inputs []string, fn func(t *csvtable.Table) error) error {
	local := fsys.Local{}
	mem := fsys.NewMemFS()
	for _, p := range append([]string{target}, inputs...) {
		if !fsys.IsRegular(local, p) {
			// Directories and devices stay unopenable in the copy.
			if _, err := local.Stat(p); err == nil {
				mem.Mkdir(p)
			}
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return lineerr.NewPathError("read", p, err)
		}
		mem.WriteFile(p, data)
	}

	if err := fn(a.table(mem)); err != nil {
		return err
	}
	data, err := mem.ReadFile(target)
	if err != nil {
		return lineerr.NewPathError("read", target, err)
	}
	slog.Debug("dry run, files left untouched", "path", target, "files", mem.Names())
	_, err = w.Write(data)
	return err
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, argError(name, value, err)
	}
	return n, nil
}

func parseInts(name string, values []string) ([]int, error) {
	ns := make([]int, len(values))
	for i, v := range values {
		n, err := parseInt(name, v)
		if err != nil {
			return nil, err
		}
		ns[i] = n
	}
	return ns, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
