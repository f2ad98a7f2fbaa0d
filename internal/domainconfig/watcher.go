package domainconfig

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 400 * time.Millisecond

// Watcher watches a single domains.yaml path and invokes onReload with the
// freshly parsed Table whenever the file changes. Most editors replace a
// file rather than write it in place, so both Write and Create/Rename
// events on the target path are treated as "changed".
type Watcher struct {
	path     string
	onReload func(*Table)
	onError  func(error)
	logger   *zap.Logger

	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher builds a Watcher over path. onReload is called on the
// watcher's own goroutine after each successfully parsed change; onError
// (optional) is called on a read/parse failure, which otherwise leaves the
// previously loaded Table in effect.
func NewWatcher(path string, onReload func(*Table), onError func(error), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		onReload: onReload,
		onError:  onError,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins watching. It watches the containing directory rather than
// the file itself, since editors and deploy tooling commonly replace a
// config file by rename rather than in-place write, which drops an
// inode-based watch on the original path.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return err
	}
	w.fsw = fsw
	go w.run()
	return nil
}

func (w *Watcher) run() {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("domainconfig watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		table, err := Load(w.path)
		if err != nil {
			w.logger.Warn("domainconfig reload failed, keeping previous table", zap.Error(err))
			if w.onError != nil {
				w.onError(err)
			}
			return
		}
		if table == nil {
			return
		}
		w.logger.Info("domainconfig reloaded", zap.String("path", w.path))
		if w.onReload != nil {
			w.onReload(table)
		}
	})
}

// Stop releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			_ = w.fsw.Close()
		}
	})
}
