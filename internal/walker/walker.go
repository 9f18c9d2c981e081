// Package walker follows source/. include directives from a root rc file and
// collects every alias definition reachable from it, in traversal order.
package walker

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/parser"
)

// DefaultDirSuffixes are the file suffixes picked up when an include names a directory.
var DefaultDirSuffixes = []string{".zsh", ".sh"}

// Result is the outcome of one traversal.
type Result struct {
	// Aliases holds every parsed alias: root file first in file order, then
	// each included file in queue order. Duplicated names are not resolved here.
	Aliases []models.Alias
	// Files lists the canonical paths that were parsed, in traversal order.
	Files []string
}

// Walker traverses an include graph breadth-first.
type Walker struct {
	suffixes []string
	logger   *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithDirSuffixes sets the suffixes of files enumerated from directory includes.
func WithDirSuffixes(suffixes []string) Option {
	return func(w *Walker) {
		if len(suffixes) > 0 {
			w.suffixes = suffixes
		}
	}
}

// WithLogger sets the logger used for skipped-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Walker.
func New(opts ...Option) *Walker {
	w := &Walker{
		suffixes: DefaultDirSuffixes,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk parses root and everything it transitively includes. Each canonical
// path is parsed at most once, so include cycles terminate. Missing,
// unreadable or non-regular files contribute nothing and never stop the walk.
func (w *Walker) Walk(root string) *Result {
	res := &Result{}
	visited := make(map[string]struct{})
	queue := []string{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		key := canonical(cur)
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}

		info, err := os.Stat(cur)
		if err != nil || !info.Mode().IsRegular() {
			w.logger.Debug("walker: skip", slog.String("path", cur))
			continue
		}
		data, err := os.ReadFile(cur)
		if err != nil {
			w.logger.Debug("walker: read failed", slog.String("path", cur), slog.String("error", err.Error()))
			continue
		}

		parsed := parser.Parse(cur, data)
		res.Aliases = append(res.Aliases, parsed.Aliases...)
		res.Files = append(res.Files, key)

		baseDir := filepath.Dir(cur)
		for _, target := range parsed.Includes {
			resolved := w.resolve(target, baseDir)
			if len(resolved) == 0 {
				w.logger.Debug("walker: include resolved to nothing",
					slog.String("file", cur), slog.String("target", target))
			}
			queue = append(queue, resolved...)
		}
	}

	return res
}

// canonical returns an absolute, symlink-free form of p when it can be
// computed, falling back to the absolute or raw path.
func canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
