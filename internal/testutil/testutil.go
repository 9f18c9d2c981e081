// Package testutil provides shared test helpers for building rc-file trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files under a fresh temp directory and returns its path.
// Keys are slash-separated paths relative to the directory; parents are created.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	// macOS temp dirs live behind a /var -> /private/var symlink.
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	for rel, content := range files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
