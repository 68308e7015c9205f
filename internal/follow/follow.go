// Package follow tails a line-oriented file and reports the lines appended
// to it.
//
// A Follower re-counts the file whenever fsnotify reports a change and on
// every poll tick. New lines are read with the line editor, so a file that
// is rewritten by linekit itself is followed the same way as one appended
// to by another program. When the file shrinks below what has already been
// reported it is treated as truncated and read again from line 1.
package follow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"linekit/internal/clock"
	"linekit/internal/state"
	"linekit/pkg/editor"
	"linekit/pkg/lineerr"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 2 * time.Second

// Batch is a run of lines appended since the previous batch.
type Batch struct {
	Path string
	// From is the line number of Lines[0].
	From  int
	Lines []string
	// Truncated is set on the first batch after the file shrank.
	Truncated bool
}

// Follower tails one file.
type Follower struct {
	ed       *editor.Editor
	path     string
	clk      clock.Clock
	interval time.Duration
	store    state.Store
	resume   bool
	watch    bool
	log      *slog.Logger

	offset  int  // lines already reported
	fromEnd bool // start at the current end of file
	batches chan Batch
}

// Option configures a Follower.
type Option func(*Follower)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(f *Follower) { f.clk = c }
}

// WithPollInterval sets how often the file is re-counted without a change
// notification.
func WithPollInterval(d time.Duration) Option {
	return func(f *Follower) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithStore saves a checkpoint after every batch.
func WithStore(s state.Store) Option {
	return func(f *Follower) { f.store = s }
}

// WithResume starts after the lines recorded in the store's checkpoint for
// the path. Without a checkpoint the start position is unchanged.
func WithResume() Option {
	return func(f *Follower) { f.resume = true }
}

// FromStart reports every existing line before following new ones.
func FromStart() Option {
	return func(f *Follower) {
		f.fromEnd = false
		f.offset = 0
	}
}

// WithoutWatch disables fsnotify and relies on polling alone. Required
// when the editor is not backed by the local file system.
func WithoutWatch() Option {
	return func(f *Follower) { f.watch = false }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(f *Follower) { f.log = l }
}

// New creates a Follower for path. By default only lines appended after
// Run starts are reported.
func New(ed *editor.Editor, path string, opts ...Option) *Follower {
	f := &Follower{
		ed:       ed,
		path:     path,
		clk:      clock.Real{},
		interval: DefaultPollInterval,
		watch:    true,
		fromEnd:  true,
		log:      slog.Default(),
		batches:  make(chan Batch, 16),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Batches returns the channel batches are delivered on. It is closed when
// Run returns.
func (f *Follower) Batches() <-chan Batch {
	return f.batches
}

// Run follows the file until ctx is done. It returns nil on cancellation.
func (f *Follower) Run(ctx context.Context) error {
	defer close(f.batches)

	if err := f.init(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	wake := make(chan struct{}, 1)
	if f.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		// Watch the directory so replacing the file is noticed too.
		if err := w.Add(filepath.Dir(f.path)); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to watch %s: %w", f.path, err)
		}
		g.Go(func() error {
			defer func() { _ = w.Close() }()
			return f.watchLoop(ctx, w, wake)
		})
	}
	g.Go(func() error {
		return f.pollLoop(ctx, wake)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (f *Follower) init() error {
	if f.resume && f.store != nil {
		cps, err := f.store.Load()
		if err != nil {
			return fmt.Errorf("failed to load checkpoints: %w", err)
		}
		if cp, ok := state.Find(cps, f.path); ok {
			f.log.Info("resuming", "path", f.path, "line", cp.Lines+1)
			f.offset = cp.Lines
			f.fromEnd = false
		}
	}
	if !f.fromEnd {
		return nil
	}
	n, err := f.ed.CountLines(f.path)
	switch {
	case lineerr.IsNotFound(err):
		f.offset = 0
	case err != nil:
		return err
	default:
		f.offset = n
	}
	return nil
}

func (f *Follower) watchLoop(ctx context.Context, w *fsnotify.Watcher, wake chan<- struct{}) error {
	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.WarnContext(ctx, "error watching file", "path", f.path, "err", err)
		}
	}
}

func (f *Follower) pollLoop(ctx context.Context, wake <-chan struct{}) error {
	ticker := f.clk.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		if err := f.check(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		case <-wake:
		}
	}
}

// check emits the lines past the offset, if any.
func (f *Follower) check(ctx context.Context) error {
	count, err := f.ed.CountLines(f.path)
	if lineerr.IsNotFound(err) {
		f.log.DebugContext(ctx, "file not readable, waiting", "path", f.path, "err", err)
		return nil
	}
	if err != nil {
		return err
	}

	truncated := false
	if count < f.offset {
		f.log.InfoContext(ctx, "file truncated, restarting from line 1", "path", f.path, "lines", count, "previous", f.offset)
		f.offset = 0
		truncated = true
	}
	if count == f.offset {
		if truncated {
			f.save(ctx)
		}
		return nil
	}

	lines, err := f.ed.GetLinesBelow(f.path, f.offset)
	if lineerr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	b := Batch{Path: f.path, From: f.offset + 1, Lines: lines, Truncated: truncated}
	select {
	case f.batches <- b:
	case <-ctx.Done():
		return ctx.Err()
	}
	f.offset += len(lines)
	f.save(ctx)
	return nil
}

// save records the offset. Failures are logged; following continues.
func (f *Follower) save(ctx context.Context) {
	if f.store == nil {
		return
	}
	cps, err := f.store.Load()
	if err == nil {
		cp := state.Checkpoint{Path: f.path, Lines: f.offset, UpdatedAt: f.clk.Now()}
		err = f.store.Save(state.Upsert(cps, cp))
	}
	if err != nil {
		f.log.WarnContext(ctx, "failed to save checkpoint", "path", f.path, "err", err)
	}
}
