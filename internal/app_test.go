package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/aliasrunner/internal/apperr"
	"github.com/starford/aliasrunner/internal/sse"
	"github.com/starford/aliasrunner/internal/testutil"
)

func testConfig(t *testing.T) (*Config, string) {
	t.Helper()
	dir := testutil.WriteTree(t, map[string]string{
		".zshrc":      "alias hello='echo hello'\nalias fail='exit 4'\nsource more.sh\n",
		"more.sh":     "alias ll='ls -la' # long list\n",
		"conf.d/x.sh": "alias unused='true'\n",
	})
	cfg := NewDefaultConfig()
	cfg.Source.RCPath = filepath.Join(dir, ".zshrc")
	cfg.Notes.Path = filepath.Join(dir, "notes.json")
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.Runner.Shell = "sh"
	cfg.Runner.Clear = false
	return cfg, dir
}

func newTestApp(t *testing.T, cfg *Config, stdout io.Writer) *App {
	t.Helper()
	app, err := New(
		WithConfig(cfg),
		WithLogOutput(io.Discard),
		WithStdio(strings.NewReader(""), stdout, io.Discard),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestNew_RootMissing(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.Source.RCPath = filepath.Join(dir, "absent")
	_, err := New(WithConfig(cfg), WithLogOutput(io.Discard))
	if !errors.Is(err, apperr.ErrRootMissing) {
		t.Fatalf("err = %v, want ErrRootMissing", err)
	}
}

func TestNew_LoadsCatalog(t *testing.T) {
	cfg, _ := testConfig(t)
	app := newTestApp(t, cfg, io.Discard)

	if n := len(app.Catalog.Aliases()); n != 3 {
		t.Errorf("aliases = %d, want 3", n)
	}
	if app.History == nil {
		t.Error("history should be enabled by default")
	}
}

func TestNew_HistoryDisabled(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.History.Enabled = false
	app := newTestApp(t, cfg, io.Discard)
	if app.History != nil {
		t.Error("history opened although disabled")
	}
}

func TestRunAlias_RecordsHistory(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cfg, _ := testConfig(t)
	var out bytes.Buffer
	app := newTestApp(t, cfg, &out)

	code, err := app.RunAlias(context.Background(), "hello", []string{"big world"})
	if err != nil || code != 0 {
		t.Fatalf("code = %d, err = %v", code, err)
	}
	if !strings.Contains(out.String(), "→ Executing: echo hello 'big world'") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "hello big world") {
		t.Errorf("command output missing: %q", out.String())
	}

	code, _ = app.RunAlias(context.Background(), "fail", nil)
	if code != 4 {
		t.Errorf("fail code = %d, want 4", code)
	}

	runs, err := app.History.Recent(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].Name != "fail" || runs[0].ExitCode != 4 {
		t.Errorf("runs = %+v", runs)
	}
	if runs[1].Args[0] != "big world" {
		t.Errorf("args = %q", runs[1].Args)
	}
}

func TestRunAlias_Unknown(t *testing.T) {
	cfg, _ := testConfig(t)
	app := newTestApp(t, cfg, io.Discard)
	if _, err := app.RunAlias(context.Background(), "nope", nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHTTPHandler_HealthAndAPI(t *testing.T) {
	cfg, _ := testConfig(t)
	app := newTestApp(t, cfg, io.Discard)
	broker := sse.NewBroker(0)
	defer broker.Close()
	h := app.NewHTTPHandler(broker)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aliases?q=long", nil))
	var body struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Results) != 1 || body.Results[0].Name != "ll" {
		t.Errorf("results = %s", w.Body.String())
	}
}

func TestHTTPHandler_ReadyFailsWithoutRoot(t *testing.T) {
	cfg, _ := testConfig(t)
	app := newTestApp(t, cfg, io.Discard)
	broker := sse.NewBroker(0)
	defer broker.Close()
	h := app.NewHTTPHandler(broker)

	_ = os.Remove(cfg.Source.RCPath)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready = %d, want 503", w.Code)
	}
}

func TestHTTPHandler_AuthOnAPIOnly(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "s3cret"}
	app := newTestApp(t, cfg, io.Discard)
	broker := sse.NewBroker(0)
	defer broker.Close()
	h := app.NewHTTPHandler(broker)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aliases", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("api without token = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d, want 200", w.Code)
	}
}
