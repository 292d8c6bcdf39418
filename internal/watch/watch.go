// Package watch keeps a manifest current by regenerating it whenever the
// enumerated tree changes. Every change triggers a full regeneration after a
// quiet period; the watcher never patches the manifest incrementally.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rcforge/fileenum/internal/enumerate"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period between the last event and a regeneration.
const DefaultDebounce = 250 * time.Millisecond

// Watcher regenerates a manifest on filesystem changes under its root.
type Watcher struct {
	opts     enumerate.Options
	log      *zap.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher

	// OnGenerate, if set, is called after every successful regeneration.
	OnGenerate func(*enumerate.Result)
	// OnError, if set, is called when a regeneration fails. The watcher
	// keeps running; the next change triggers another attempt.
	OnError func(error)
}

// New creates a Watcher for opts. A non-positive debounce uses DefaultDebounce.
func New(opts enumerate.Options, log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	opts.Logger = log

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	return &Watcher{
		opts:     opts,
		log:      log,
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Run generates the manifest once, then regenerates it after changes until
// ctx is cancelled. The initial generation must succeed. Run closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	if err := w.generate(); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watch stopped", zap.Error(ctx.Err()))
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("filesystem watcher closed")
			}
			if w.handleEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("filesystem watcher closed")
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := w.generate(); err != nil {
				w.log.Error("regenerating manifest", zap.Error(err))
				if w.OnError != nil {
					w.OnError(err)
				}
			}
		}
	}
}

// handleEvent registers new directories and reports whether the event
// should trigger a regeneration.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			w.log.Debug("directory created", zap.String("path", event.Name))
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return true
		}
	}

	// Files named like the manifest are never listed, so their creation or
	// modification cannot change it. A removed or renamed path of that name
	// may have been a directory whose files were listed.
	if filepath.Base(event.Name) == w.opts.ManifestName {
		if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
			return false
		}
		if filepath.Clean(event.Name) == filepath.Clean(w.opts.ManifestPath()) {
			return false
		}
	}

	w.log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	// Content-only writes do not change the listing.
	return !event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// addTree registers dir and every directory below it. Symlinked
// directories are not followed, matching the generator.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories removed mid-walk are picked up by the next event.
			if errors.Is(err, fs.ErrNotExist) && path != dir {
				return nil
			}
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.log.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

func (w *Watcher) generate() error {
	res, err := enumerate.Generate(w.opts)
	if err != nil {
		return err
	}
	if w.OnGenerate != nil {
		w.OnGenerate(res)
	}
	return nil
}
