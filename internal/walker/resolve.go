package walker

import (
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"mvdan.cc/sh/v3/shell"
)

// resolve turns one raw include target into the files it names, in the order
// they must be queued. Failures of any kind yield no files.
func (w *Walker) resolve(target, baseDir string) []string {
	expanded := expandPath(target)

	if strings.ContainsAny(target, "*?[") {
		return w.glob(expanded, baseDir)
	}

	p := expanded
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		return w.enumerateDir(p)
	}
	return []string{p}
}

// glob matches an absolute pattern against its parent directory and a
// relative one against the including file's directory. Only regular files
// are kept.
func (w *Walker) glob(pattern, baseDir string) []string {
	var dir, rest string
	if filepath.IsAbs(pattern) {
		dir, rest = filepath.Dir(pattern), filepath.Base(pattern)
	} else {
		static, dyn := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dir, rest = filepath.Join(baseDir, filepath.FromSlash(static)), dyn
	}

	matches, err := doublestar.Glob(os.DirFS(dir), rest)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		p := filepath.Join(dir, filepath.FromSlash(m))
		if isRegular(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, comparePaths)
	return out
}

// enumerateDir returns every regular file below dir whose suffix is one of
// the configured directory suffixes.
func (w *Walker) enumerateDir(dir string) []string {
	var out []string
	_ = doublestar.GlobWalk(os.DirFS(dir), "**/*", func(rel string, d fs.DirEntry) error {
		if d.IsDir() || !slices.Contains(w.suffixes, filepath.Ext(rel)) {
			return nil
		}
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if isRegular(p) {
			out = append(out, p)
		}
		return nil
	})
	slices.SortFunc(out, comparePaths)
	return out
}

// expandPath expands a leading "~" or "~user" and $VAR / ${VAR} references.
// Unset variables stay in the path literally, so the target does not resolve.
// Targets the shell expander rejects fall back to plain environment expansion.
func expandPath(p string) string {
	p = expandHome(p)
	expanded, err := shell.Expand(p, lookupEnv)
	if err != nil {
		return os.Expand(p, lookupEnv)
	}
	return expanded
}

func lookupEnv(name string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return "$" + name
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	name, rest, _ := strings.Cut(p[1:], "/")
	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return p
		}
		home = u.HomeDir
	}
	return filepath.Join(home, rest)
}

func isRegular(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// comparePaths orders paths component by component, so "a/x" sorts before "a-b/x".
func comparePaths(a, b string) int {
	return slices.Compare(
		strings.Split(filepath.ToSlash(a), "/"),
		strings.Split(filepath.ToSlash(b), "/"),
	)
}
