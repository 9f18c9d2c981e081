// Package watcher reloads the alias catalog when a traversed rc file changes.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/aliasrunner/internal/catalog"
)

// Debounce is how long the watcher waits for a burst of events to settle
// before reloading.
const Debounce = 200 * time.Millisecond

// Source is the part of the catalog the watcher drives.
type Source interface {
	Root() string
	Files() []string
	Reload() (catalog.ReloadStats, error)
}

// ChangeCallback is called after a watcher-driven reload that changed the
// merged alias set.
type ChangeCallback func(stats catalog.ReloadStats)

// Watch watches the directories of every file parsed by the last reload,
// plus the root's directory, and reloads src after changes settle. It runs
// until ctx is cancelled.
//
// An event counts when it names a traversed file, the root, or a file
// carrying one of suffixes (a new file in an included directory). The watch
// list is re-synced after each reload so new include targets are covered.
func Watch(ctx context.Context, src Source, suffixes []string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	tracked := trackedFiles(src)
	watched := map[string]struct{}{}
	syncDirs(w, watched, src, logger)

	logger.Info("watcher: started",
		slog.String("root", src.Root()),
		slog.Int("dirs", len(watched)))

	var timer *time.Timer
	var timerC <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerC = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerC:
			stats, reloadErr := src.Reload()
			if reloadErr != nil {
				logger.Warn("watcher: reload failed", slog.String("error", reloadErr.Error()))
			}
			tracked = trackedFiles(src)
			syncDirs(w, watched, src, logger)
			if stats.Changed && cb != nil {
				cb(stats)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if relevant(ev.Name, tracked, suffixes) {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func trackedFiles(src Source) map[string]struct{} {
	out := map[string]struct{}{}
	for _, f := range src.Files() {
		out[filepath.Clean(f)] = struct{}{}
	}
	if root, err := filepath.Abs(src.Root()); err == nil {
		out[root] = struct{}{}
	}
	return out
}

func relevant(path string, tracked map[string]struct{}, suffixes []string) bool {
	path = filepath.Clean(path)
	if _, ok := tracked[path]; ok {
		return true
	}
	return slices.ContainsFunc(suffixes, func(s string) bool {
		return strings.HasSuffix(path, s)
	})
}

// syncDirs makes the watch list equal to the parent directories of the
// tracked files.
func syncDirs(w *fsnotify.Watcher, watched map[string]struct{}, src Source, logger *slog.Logger) {
	want := map[string]struct{}{}
	for f := range trackedFiles(src) {
		want[filepath.Dir(f)] = struct{}{}
	}

	for dir := range watched {
		if _, ok := want[dir]; !ok {
			_ = w.Remove(dir)
			delete(watched, dir)
			logger.Debug("watcher: unwatched dir", slog.String("path", dir))
		}
	}
	for dir := range want {
		if _, ok := watched[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			logger.Debug("watcher: add dir failed", slog.String("path", dir), slog.String("error", err.Error()))
			continue
		}
		watched[dir] = struct{}{}
		logger.Debug("watcher: watching dir", slog.String("path", dir))
	}
}
