// Package parser extracts alias definitions, include directives and note
// comments from shell rc files.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/aliasrunner/internal/models"
)

// space matches what counts as whitespace in rc files: ASCII space and
// controls, the information separators, NEL and every Unicode separator.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// alias NAME = 'BODY' # note   (the closing quote must match the opening one)
	aliasRe = compile(`^\s*alias\s+([A-Za-z0-9_+.\-]+)\s*=\s*(?:'(.*?)'|"(.*?)")(?:\s*#\s*(.*))?\s*$`)
	// source PATH | . PATH, optionally wrapped in one matching quote pair
	includeRe    = compile(`^\s*(?:source|\.)\s+(?:'([^'"]+)'|"([^'"]+)"|([^'"]+))\s*$`)
	notePrefixRe = compile(`(?i)^note:\s*`)
)

func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, `\s`, space))
}

// NoteSeparator joins a preceding note comment with an alias's trailing comment.
const NoteSeparator = " | "

// Kind classifies a single line.
type Kind int

const (
	KindOther Kind = iota
	KindInclude
	KindNote
	KindAlias
)

// State is the carry-over between lines of one file: the note taken from the
// most recent note comment that no alias has consumed yet. It is never reset
// by unrelated lines.
type State struct {
	PendingNote string
}

// Line is the interpretation of one input line.
type Line struct {
	Kind    Kind
	Include string
	Name    string
	Body    string
	Note    string
}

// Result holds everything extracted from one file, in file order.
type Result struct {
	Aliases  []models.Alias
	Includes []string
}

// Parse decodes data leniently (invalid UTF-8 is replaced, never rejected)
// and extracts aliases and include targets. file is recorded on each alias.
func Parse(file string, data []byte) *Result {
	text := strings.ToValidUTF8(string(data), "\uFFFD")

	res := &Result{}
	var st State
	for i, raw := range splitLines(text) {
		var ln Line
		ln, st = ParseLine(st, raw)
		switch ln.Kind {
		case KindInclude:
			res.Includes = append(res.Includes, ln.Include)
		case KindAlias:
			res.Aliases = append(res.Aliases, models.Alias{
				Name: ln.Name,
				Body: ln.Body,
				Note: ln.Note,
				File: file,
				Line: i + 1,
			})
		}
	}
	return res
}

// ParseLine interprets one line given the state left by the previous lines
// and returns the new state. Include lines are checked first, then note
// comments, then alias definitions, so a line has at most one meaning.
func ParseLine(st State, line string) (Line, State) {
	if target, ok := matchInclude(line); ok {
		return Line{Kind: KindInclude, Include: target}, st
	}

	if note, ok := matchNoteComment(line); ok {
		return Line{Kind: KindNote, Note: note}, State{PendingNote: note}
	}

	m := aliasRe.FindStringSubmatchIndex(line)
	if m == nil {
		return Line{Kind: KindOther}, st
	}
	body := ""
	if m[4] >= 0 {
		body = line[m[4]:m[5]]
	} else if m[6] >= 0 {
		body = line[m[6]:m[7]]
	}
	trailing := ""
	if m[8] >= 0 {
		trailing = strings.TrimSpace(line[m[8]:m[9]])
	}

	note := trailing
	if st.PendingNote != "" {
		note = st.PendingNote
		if trailing != "" {
			note += NoteSeparator + trailing
		}
		st = State{}
	}

	return Line{
		Kind: KindAlias,
		Name: line[m[2]:m[3]],
		Body: body,
		Note: note,
	}, st
}

func matchInclude(line string) (string, bool) {
	m := includeRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g), true
		}
	}
	return "", false
}

// matchNoteComment recognises "#: text" and "# ... note: text" lines. An empty
// note text clears the pending note.
func matchNoteComment(line string) (string, bool) {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, "#") {
		return "", false
	}
	if !strings.Contains(strings.ToLower(stripped), "note:") && !strings.HasPrefix(stripped, "#:") {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimLeft(stripped, "#"))
	text = notePrefixRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text), true
}

// splitLines breaks text at \n, \r, \r\n, \v, \f, \x1c-\x1e, NEL and the
// Unicode line and paragraph separators. A final line break does not start
// an extra empty line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
