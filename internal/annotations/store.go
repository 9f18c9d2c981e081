// Package annotations persists user-written alias notes and overlays them on
// parsed aliases.
package annotations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/aliasrunner/internal/models"
)

// Store is a name -> note mapping backed by a JSON file. Notes are keyed by
// alias name only, independent of the file that defines the alias.
type Store struct {
	path  string
	notes map[string]string
}

// Open loads the store at path. A missing or malformed file yields an empty
// store; Open never fails.
func Open(path string) *Store {
	s := &Store{path: path}
	s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load re-reads the backing file, replacing the in-memory notes.
func (s *Store) Load() {
	s.notes = readNotes(s.path)
}

// Get returns the stored note for name.
func (s *Store) Get(name string) (string, bool) {
	n, ok := s.notes[name]
	return n, ok
}

// All returns a copy of every stored note.
func (s *Store) All() map[string]string {
	return maps.Clone(s.notes)
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// Set stores the trimmed text as the note for name and persists the store.
// Blank text removes the entry instead. The in-memory store is only updated
// once the file has been written.
func (s *Store) Set(name, text string) error {
	next := maps.Clone(s.notes)
	if next == nil {
		next = make(map[string]string)
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		next[name] = trimmed
	} else {
		delete(next, name)
	}
	if err := writeNotes(s.path, next); err != nil {
		return err
	}
	s.notes = next
	return nil
}

// Clear removes the note for name and persists the store.
func (s *Store) Clear(name string) error {
	return s.Set(name, "")
}

// Overlay returns a copy of records where every alias with a stored note has
// its note replaced by it. records itself is not modified.
func (s *Store) Overlay(records []models.Alias) []models.Alias {
	return Overlay(records, s.notes)
}

// Overlay applies notes to a copy of records.
func Overlay(records []models.Alias, notes map[string]string) []models.Alias {
	out := make([]models.Alias, len(records))
	copy(out, records)
	for i := range out {
		if n, ok := notes[out[i].Name]; ok {
			out[i].Note = n
		}
	}
	return out
}

func readNotes(path string) map[string]string {
	notes := make(map[string]string)
	data, err := os.ReadFile(path)
	if err != nil {
		return notes
	}
	if err := json.Unmarshal(data, &notes); err != nil {
		return make(map[string]string)
	}
	if notes == nil {
		notes = make(map[string]string)
	}
	return notes
}

// writeNotes atomically writes notes: tmp file → fsync → rename. Keys are
// sorted and indented so the file diffs cleanly.
func writeNotes(path string, notes map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notes); err != nil {
		return fmt.Errorf("annotations: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("annotations: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".aliasrunner-notes-*.tmp")
	if err != nil {
		return fmt.Errorf("annotations: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("annotations: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("annotations: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("annotations: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("annotations: rename: %w", err)
	}
	success = true
	return nil
}
