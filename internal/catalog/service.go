// Package catalog is the alias session: it runs the traverse/merge/overlay
// pipeline, holds the current query and cursor, and applies note edits.
package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/starford/aliasrunner/internal/annotations"
	"github.com/starford/aliasrunner/internal/apperr"
	"github.com/starford/aliasrunner/internal/checksum"
	"github.com/starford/aliasrunner/internal/merge"
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/search"
	"github.com/starford/aliasrunner/internal/walker"
)

// Status messages reported to the presentation layer.
const (
	StatusReady       = "Ready"
	StatusReloaded    = "Reloaded"
	StatusNoteSaved   = "Note saved"
	StatusNoteCleared = "Note cleared"
	StatusNoSelection = "No selection"
)

// ReloadStats summarises one reload.
type ReloadStats struct {
	Aliases     int    `json:"aliases"`
	Files       int    `json:"files"`
	Fingerprint string `json:"fingerprint"`
	Changed     bool   `json:"changed"`
}

// Service owns the merged alias set and the query state. The HTTP server and
// the watcher call it from different goroutines, so all state is guarded by
// one lock; a reload builds the new state first and swaps it in at once.
type Service struct {
	root   string
	walker *walker.Walker
	notes  *annotations.Store
	logger *slog.Logger

	mu          sync.RWMutex
	parsed      *merge.Table
	files       []string
	aliases     []models.Alias
	fingerprint string
	query       search.Query
	status      string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWalker sets the include walker.
func WithWalker(w *walker.Walker) Option {
	return func(s *Service) {
		if w != nil {
			s.walker = w
		}
	}
}

// CheckRoot verifies that path exists and is a regular file.
func CheckRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", apperr.ErrRootMissing, path)
	}
	return nil
}

// New creates a service for the rc file at root and performs the initial
// load. A missing root yields an empty alias set; callers that must fail
// fast call CheckRoot first.
func New(root string, notes *annotations.Store, opts ...Option) *Service {
	s := &Service{
		root:   root,
		notes:  notes,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		parsed: merge.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.walker == nil {
		s.walker = walker.New(walker.WithLogger(s.logger))
	}

	_, _ = s.Reload()
	s.mu.Lock()
	s.status = StatusReady
	s.mu.Unlock()
	return s
}

// Root returns the root rc path.
func (s *Service) Root() string {
	return s.root
}

// Reload re-runs traversal, merge and overlay from scratch and re-applies the
// current query. If the root file is missing the alias set becomes empty and
// ErrRootMissing is returned alongside the stats.
func (s *Service) Reload() (ReloadStats, error) {
	rootErr := CheckRoot(s.root)

	res := s.walker.Walk(s.root)
	table := merge.Build(res.Aliases)
	records := table.Records()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes.Load()
	aliases := s.notes.Overlay(records)
	fp := checksum.Aliases(aliases)

	stats := ReloadStats{
		Aliases:     len(aliases),
		Files:       len(res.Files),
		Fingerprint: fp,
		Changed:     fp != s.fingerprint,
	}

	s.parsed = table
	s.files = res.Files
	s.aliases = aliases
	s.fingerprint = fp
	s.query = search.NewQuery(s.aliases, s.query.Text)
	s.status = StatusReloaded

	s.logger.Info("catalog: reloaded",
		slog.String("root", s.root),
		slog.Int("aliases", stats.Aliases),
		slog.Int("files", stats.Files),
		slog.Bool("changed", stats.Changed))

	if rootErr != nil {
		s.status = StatusReloaded + ": " + rootErr.Error()
		return stats, rootErr
	}
	return stats, nil
}

// Aliases returns the overlaid aliases in display order.
func (s *Service) Aliases() []models.Alias {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alias, len(s.aliases))
	copy(out, s.aliases)
	return out
}

// Files returns the canonical paths parsed by the last reload.
func (s *Service) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

// Fingerprint identifies the current overlaid alias set.
func (s *Service) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// Get returns the overlaid alias with the exact name.
func (s *Service) Get(name string) (models.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.aliases {
		if a.Name == name {
			return a, nil
		}
	}
	return models.Alias{}, fmt.Errorf("alias %q: %w", name, apperr.ErrNotFound)
}

// Search ranks the current aliases against text without touching the
// session's query state.
func (s *Service) Search(text string) []search.Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.Filter(s.aliases, text)
}

// Filter replaces the session query, re-ranks, and resets the cursor.
func (s *Service) Filter(text string) search.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = search.NewQuery(s.aliases, text)
	s.status = fmt.Sprintf("Filtered: %d/%d", len(s.query.Results), len(s.aliases))
	return s.query
}

// Query returns the current query state.
func (s *Service) Query() search.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Move shifts the cursor by delta within the current results.
func (s *Service) Move(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Move(delta)
}

// Current returns the alias under the cursor.
func (s *Service) Current() (models.Alias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.query.Current()
	if !ok {
		s.status = StatusNoSelection
		return models.Alias{}, apperr.ErrNoSelection
	}
	return h.Alias, nil
}

// SetNote stores text as the user note for name; blank text clears it. The
// displayed aliases change only after the store has been written.
func (s *Service) SetNote(name, text string) (models.Alias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parsed.Get(name); !ok {
		return models.Alias{}, fmt.Errorf("alias %q: %w", name, apperr.ErrNotFound)
	}
	if err := s.notes.Set(name, text); err != nil {
		s.status = "Note not saved: " + err.Error()
		s.logger.Warn("catalog: note save failed", slog.String("alias", name), slog.String("error", err.Error()))
		return models.Alias{}, err
	}

	s.reapplyNotesLocked()
	if _, ok := s.notes.Get(name); ok {
		s.status = StatusNoteSaved
	} else {
		s.status = StatusNoteCleared
	}
	s.logger.Info("catalog: note updated", slog.String("alias", name), slog.String("status", s.status))

	for _, a := range s.aliases {
		if a.Name == name {
			return a, nil
		}
	}
	return models.Alias{}, fmt.Errorf("alias %q: %w", name, apperr.ErrNotFound)
}

// ClearNote removes the user note for name, restoring the parsed note.
func (s *Service) ClearNote(name string) (models.Alias, error) {
	return s.SetNote(name, "")
}

// Status returns the last status message.
func (s *Service) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// reapplyNotesLocked recomputes the overlay from the untouched parse.
func (s *Service) reapplyNotesLocked() {
	s.aliases = s.notes.Overlay(s.parsed.Records())
	s.fingerprint = checksum.Aliases(s.aliases)
	s.query = search.NewQuery(s.aliases, s.query.Text)
}
