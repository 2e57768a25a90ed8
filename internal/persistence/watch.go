package persistence

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single scene document. It watches the
// parent directory so atomic rename-on-save is seen too.
type Watcher struct {
	Debounce time.Duration

	path    string
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// NewWatcher starts watching path.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		Debounce: DefaultDebounce,
		path:     abs,
		watcher:  fw,
		log:      log,
	}, nil
}

// Path returns the watched document path.
func (w *Watcher) Path() string { return w.path }

// Run calls onChange after the document is written or replaced, until ctx
// is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	var fire <-chan time.Time
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("scene document changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
