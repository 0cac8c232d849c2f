// Package watch reruns a callback when watched files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches files and directories and calls back after changes. The
// callback always runs on the goroutine of Run, so passes never overlap.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    []string
	dirs     []string
	exts     []string
	callback func(ctx context.Context) error
	logger   *slog.Logger

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// New creates a Watcher. Files are watched through their directory; every
// change in dirs to a file with one of exts triggers the callback too.
func New(files, dirs, exts []string, callback func(ctx context.Context) error, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		exts:     exts,
		callback: callback,
		logger:   logger,
		Debounce: DefaultDebounce,
	}

	var watched []string

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		w.files = append(w.files, abs)
		watched = append(watched, filepath.Dir(abs))
	}

	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		w.dirs = append(w.dirs, abs)
		watched = append(watched, abs)
	}

	slices.Sort(watched)

	for _, d := range slices.Compact(watched) {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", d, err)
		}
	}

	return w, nil
}

// Relevant reports whether a change of path triggers the callback.
func (w *Watcher) Relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	if slices.Contains(w.files, abs) {
		return true
	}

	if !slices.Contains(w.dirs, filepath.Dir(abs)) {
		return false
	}

	return slices.ContainsFunc(w.exts, func(ext string) bool {
		return strings.HasSuffix(abs, ext)
	})
}

// Run calls back once, then after every debounced batch of relevant changes
// until ctx is done. Callback errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.call(ctx)

	timer := time.NewTimer(w.Debounce)
	timer.Stop()

	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !w.Relevant(event.Name) {
				continue
			}

			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.Debounce)
			debounceCh = timer.C

		case <-debounceCh:
			debounceCh = nil
			w.call(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watch error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) call(ctx context.Context) {
	if err := w.callback(ctx); err != nil {
		w.logger.Error("watch callback failed", "error", err)
	}
}
