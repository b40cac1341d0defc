package parser

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"docweaver/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more changes before
// reporting.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports source changes below a set of directories.
type Watcher struct {
	opts     Options
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher watches the directories selected by opts.
func NewWatcher(opts Options, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{opts: opts, debounce: debounce}
}

// Watch blocks until ctx is done, calling onChange with the sorted,
// root-relative paths changed since the previous call. Bursts of events are
// coalesced into one call.
func (w *Watcher) Watch(ctx context.Context, onChange func(changed []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	w.watcher = fw

	count, err := w.addTree()
	if err != nil {
		return err
	}
	logging.Info("Parser", "Watching %d directories for changes", count)

	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, relevant := w.handleEvent(event)
			if !relevant {
				continue
			}
			pending[rel] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			fire = nil
			onChange(changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Error("Parser", err, "Filesystem watcher error")
		}
	}
}

// handleEvent starts watching new directories and filters events down to
// selected source files.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.opts.Root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	if event.Has(fsnotify.Create) {
		if added, _ := w.addDir(event.Name); added {
			return "", false
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !hasExtension(w.opts.Extensions, event.Name) || ignored(w.opts.Ignore, rel) {
		return "", false
	}
	if !w.opts.Hidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	return rel, true
}

func (w *Watcher) addTree() (int, error) {
	count := 0
	for _, dir := range w.opts.Directories {
		base := dir
		if !filepath.IsAbs(base) {
			base = filepath.Join(w.opts.Root, dir)
		}
		err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			if p != base && w.skipDir(p, d.Name()) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(p); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func (w *Watcher) addDir(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() || w.skipDir(p, info.Name()) {
		return false, err
	}
	if err := w.watcher.Add(p); err != nil {
		logging.Warn("Parser", "Could not watch %s: %v", p, err)
		return false, err
	}
	logging.Debug("Parser", "Watching new directory %s", p)
	return true, nil
}

func (w *Watcher) skipDir(p, name string) bool {
	if !w.opts.Hidden && strings.HasPrefix(name, ".") {
		return true
	}
	rel, err := filepath.Rel(w.opts.Root, p)
	if err != nil {
		return false
	}
	return ignoredDir(w.opts.Ignore, filepath.ToSlash(rel))
}
