package parser

import (
	"reflect"
	"testing"
)

func TestParse_AliasesAndIncludes(t *testing.T) {
	input := []byte("export PATH=/bin\n" +
		"alias gst='git status' # show status\n" +
		"source ~/.aliases\n" +
		"  alias ll=\"ls -la\"\n" +
		". 'conf.d/*.zsh'\n")
	r := Parse("/home/u/.zshrc", input)

	if len(r.Aliases) != 2 {
		t.Fatalf("len(aliases) = %d, want 2", len(r.Aliases))
	}
	a := r.Aliases[0]
	if a.Name != "gst" || a.Body != "git status" || a.Note != "show status" {
		t.Errorf("alias[0] = %+v", a)
	}
	if a.File != "/home/u/.zshrc" || a.Line != 2 {
		t.Errorf("location = %s, want /home/u/.zshrc:2", a.Location())
	}
	if r.Aliases[1].Name != "ll" || r.Aliases[1].Body != "ls -la" || r.Aliases[1].Line != 4 {
		t.Errorf("alias[1] = %+v", r.Aliases[1])
	}
	if len(r.Includes) != 2 || r.Includes[0] != "~/.aliases" || r.Includes[1] != "conf.d/*.zsh" {
		t.Errorf("includes = %v", r.Includes)
	}
}

func TestParseLine_AliasShapes(t *testing.T) {
	cases := []struct {
		line string
		name string
		body string
		note string
	}{
		{`alias g='git'`, "g", "git", ""},
		{`alias g="git"`, "g", "git", ""},
		{`alias g = 'git'`, "g", "git", ""},
		{`alias a.b+c-d_e='x'`, "a.b+c-d_e", "x", ""},
		{`alias e=''`, "e", "", ""},
		{`alias q="say 'hi'"`, "q", "say 'hi'", ""},
		{`alias s='echo "x"' #   trailing note  `, "s", `echo "x"`, "trailing note"},
		{`alias s='a' 'b'`, "s", "a' 'b", ""},
	}
	for _, tc := range cases {
		ln, _ := ParseLine(State{}, tc.line)
		if ln.Kind != KindAlias {
			t.Errorf("%q: kind = %v, want alias", tc.line, ln.Kind)
			continue
		}
		if ln.Name != tc.name || ln.Body != tc.body || ln.Note != tc.note {
			t.Errorf("%q: got (%q, %q, %q), want (%q, %q, %q)",
				tc.line, ln.Name, ln.Body, ln.Note, tc.name, tc.body, tc.note)
		}
	}
}

func TestParseLine_NotAnAlias(t *testing.T) {
	lines := []string{
		`alias g=git`,
		`alias g='git"`,
		`alias g='git' trailing`,
		`unalias g`,
		`# alias g='git'`,
		`alias -g G='| grep'`,
	}
	for _, l := range lines {
		if ln, _ := ParseLine(State{}, l); ln.Kind == KindAlias {
			t.Errorf("%q parsed as alias %+v", l, ln)
		}
	}
}

func TestParseLine_IncludeShapes(t *testing.T) {
	cases := map[string]string{
		`source ~/.zsh_aliases`:       "~/.zsh_aliases",
		`  . /etc/zsh/aliases`:        "/etc/zsh/aliases",
		`source "$HOME/my aliases"`:   "$HOME/my aliases",
		`source 'conf.d/*.zsh'   `:    "conf.d/*.zsh",
		`source $ZDOTDIR/aliases.zsh`: "$ZDOTDIR/aliases.zsh",
	}
	for line, want := range cases {
		ln, _ := ParseLine(State{}, line)
		if ln.Kind != KindInclude || ln.Include != want {
			t.Errorf("%q: got (%v, %q), want include %q", line, ln.Kind, ln.Include, want)
		}
	}

	for _, line := range []string{`source 'unbalanced`, `source "a'`, `sourcefile x`, `source`} {
		if ln, _ := ParseLine(State{}, line); ln.Kind == KindInclude {
			t.Errorf("%q should not be an include, got %q", line, ln.Include)
		}
	}
}

func TestParseLine_IncludeCheckedBeforeNote(t *testing.T) {
	st := State{PendingNote: "keep me"}
	ln, next := ParseLine(st, `source ~/.note:aliases`)
	if ln.Kind != KindInclude {
		t.Fatalf("kind = %v, want include", ln.Kind)
	}
	if next.PendingNote != "keep me" {
		t.Errorf("include line changed pending note to %q", next.PendingNote)
	}
}

func TestParseLine_NoteComments(t *testing.T) {
	cases := map[string]string{
		"# note: lists files":  "lists files",
		"## NOTE:   shouting":  "shouting",
		"#: colon style":       ": colon style",
		"  # some Note: inner": "some Note: inner",
	}
	for line, want := range cases {
		ln, st := ParseLine(State{}, line)
		if ln.Kind != KindNote {
			t.Errorf("%q: kind = %v, want note", line, ln.Kind)
			continue
		}
		if st.PendingNote != want {
			t.Errorf("%q: pending = %q, want %q", line, st.PendingNote, want)
		}
	}

	if ln, _ := ParseLine(State{}, "# plain comment"); ln.Kind != KindOther {
		t.Errorf("plain comment kind = %v, want other", ln.Kind)
	}
}

func TestParseLine_EmptyNoteClearsBuffer(t *testing.T) {
	_, st := ParseLine(State{PendingNote: "old"}, "# note:   ")
	if st.PendingNote != "" {
		t.Errorf("pending = %q, want empty", st.PendingNote)
	}
}

func TestParse_StickyNoteConsumedOnce(t *testing.T) {
	input := []byte("# note: first note\n" +
		"\n" +
		"export FOO=1\n" +
		"alias a='one' # own\n" +
		"alias b='two' # only trailing\n" +
		"alias c='three'\n")
	r := Parse("rc", input)
	if len(r.Aliases) != 3 {
		t.Fatalf("len = %d, want 3", len(r.Aliases))
	}
	if got := r.Aliases[0].Note; got != "first note | own" {
		t.Errorf("a note = %q, want %q", got, "first note | own")
	}
	if got := r.Aliases[1].Note; got != "only trailing" {
		t.Errorf("b note = %q, want %q", got, "only trailing")
	}
	if got := r.Aliases[2].Note; got != "" {
		t.Errorf("c note = %q, want empty", got)
	}
}

func TestParse_LaterNoteOverwritesPending(t *testing.T) {
	input := []byte("# note: stale\n# note: fresh\nalias x='y'\n")
	r := Parse("rc", input)
	if len(r.Aliases) != 1 || r.Aliases[0].Note != "fresh" {
		t.Errorf("aliases = %+v, want note fresh", r.Aliases)
	}
}

func TestParse_StateDoesNotLeakBetweenFiles(t *testing.T) {
	_ = Parse("a", []byte("# note: dangling\n"))
	r := Parse("b", []byte("alias x='y'\n"))
	if r.Aliases[0].Note != "" {
		t.Errorf("note leaked across files: %q", r.Aliases[0].Note)
	}
}

func TestParse_InvalidUTF8AndCRLF(t *testing.T) {
	input := []byte("alias bad='caf\xe9'\r\nalias ok='fine'\r\n")
	r := Parse("rc", input)
	if len(r.Aliases) != 2 {
		t.Fatalf("len = %d, want 2", len(r.Aliases))
	}
	if r.Aliases[0].Body != "caf�" {
		t.Errorf("body = %q", r.Aliases[0].Body)
	}
	if r.Aliases[1].Body != "fine" || r.Aliases[1].Line != 2 {
		t.Errorf("alias[1] = %+v", r.Aliases[1])
	}
}

func TestParse_UnicodeLineBreaks(t *testing.T) {
	input := "alias a='1'\valias b='2'\u2028alias c='3'\u0085# note: dee\x1calias d='4'\falias e='5'\n"
	r := Parse("rc", []byte(input))
	if len(r.Aliases) != 5 {
		t.Fatalf("len = %d, want 5: %+v", len(r.Aliases), r.Aliases)
	}
	wantLines := map[string]int{"a": 1, "b": 2, "c": 3, "d": 5, "e": 6}
	for _, a := range r.Aliases {
		if a.Line != wantLines[a.Name] {
			t.Errorf("%s line = %d, want %d", a.Name, a.Line, wantLines[a.Name])
		}
	}
	if r.Aliases[3].Note != "dee" {
		t.Errorf("d note = %q, want dee", r.Aliases[3].Note)
	}
}

func TestParseLine_UnicodeWhitespace(t *testing.T) {
	ln, _ := ParseLine(State{}, "\u3000alias\u00a0wide\u2003=\u2003'echo wide'\u00a0#\u00a0spaced")
	if ln.Kind != KindAlias || ln.Name != "wide" || ln.Body != "echo wide" || ln.Note != "spaced" {
		t.Errorf("line = %+v", ln)
	}

	ln, _ = ParseLine(State{}, "source\u00a0extra.zsh")
	if ln.Kind != KindInclude || ln.Include != "extra.zsh" {
		t.Errorf("include = %+v", ln)
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"a\r\nb\rc", []string{"a", "b", "c"}},
		{"a\u2029b\x1dc", []string{"a", "b", "c"}},
		{"a\x1fb", []string{"a\x1fb"}},
	}
	for _, c := range cases {
		if got := splitLines(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitLines(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
