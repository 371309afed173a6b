package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single append produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to a single file. The parent directory is watched
// so the file may be created or replaced after the watch starts.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
}

// New starts watching path. The parent directory must exist.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: abs, debounce: debounce, fs: fs}, nil
}

// Run calls onChange after each settled burst of writes to the file until ctx
// is done. Errors from onChange and from the watcher are logged, not fatal.
// Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := onChange(); err != nil {
				log.Printf("warning: refresh after change to %s: %v", w.path, err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("warning: watch %s: %v", w.path, err)
		}
	}
}
