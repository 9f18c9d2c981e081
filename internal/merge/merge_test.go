package merge

import (
	"path/filepath"
	"testing"

	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/testutil"
	"github.com/starford/aliasrunner/internal/walker"
)

func TestBuild_LastDefinitionWinsEntirely(t *testing.T) {
	tbl := Build([]models.Alias{
		{Name: "x", Body: "a", Note: "rich note from the root file", File: "rc", Line: 1},
		{Name: "y", Body: "keep", File: "rc", Line: 2},
		{Name: "x", Body: "b", Note: "", File: "inc.zsh", Line: 7},
	})

	x, ok := tbl.Get("x")
	if !ok {
		t.Fatal("x missing")
	}
	if x.Body != "b" || x.Note != "" || x.File != "inc.zsh" || x.Line != 7 {
		t.Errorf("x = %+v, want full replacement by the later record", x)
	}
	if tbl.Len() != 2 {
		t.Errorf("len = %d, want 2", tbl.Len())
	}
}

func TestRecords_CaseInsensitiveOrder(t *testing.T) {
	tbl := Build([]models.Alias{
		{Name: "zeta"},
		{Name: "Beta"},
		{Name: "alpha"},
		{Name: "beta"},
	})
	got := tbl.Records()
	want := []string{"alpha", "Beta", "beta", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.Name != want[i] {
			t.Errorf("records[%d] = %q, want %q", i, a.Name, want[i])
		}
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	tbl := Build([]models.Alias{{Name: "a", Note: "orig"}})
	recs := tbl.Records()
	recs[0].Note = "changed"
	if a, _ := tbl.Get("a"); a.Note != "orig" {
		t.Errorf("table mutated through Records: %q", a.Note)
	}
}

func TestOverrideAcrossIncludedFile(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		".zshrc":   "alias x='a'\nsource more.zsh\n",
		"more.zsh": "alias x='b' # noteB\n",
	})
	res := walker.New().Walk(filepath.Join(dir, ".zshrc"))
	x, ok := Build(res.Aliases).Get("x")
	if !ok {
		t.Fatal("x missing")
	}
	if x.Body != "b" || x.Note != "noteB" {
		t.Errorf("x = %+v, want body b note noteB", x)
	}
	if x.File != filepath.Join(dir, "more.zsh") || x.Line != 1 {
		t.Errorf("location = %s", x.Location())
	}
}
