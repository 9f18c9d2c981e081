package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

var errInvalid = errors.New("port out of range")

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errInvalid
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	path := writeFile(t, "name: ${SAMPLE_NAME}\n")

	cfg := sample{Port: 8765}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" || cfg.Port != 8765 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	cfg := sample{Port: 1}
	err := Load(path, &cfg)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "port: [unterminated\n")
	cfg := sample{Port: 1}
	if err := Load(path, &cfg); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadIfExists_MissingFileUsesDefaults(t *testing.T) {
	cfg := sample{Name: "default", Port: 1}
	found, err := LoadIfExists(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	if err != nil || found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if cfg.Name != "default" {
		t.Errorf("cfg = %+v", cfg)
	}

	bad := sample{}
	if _, err := LoadIfExists("", &bad); !errors.Is(err, errInvalid) {
		t.Errorf("defaults not validated: %v", err)
	}
}

func TestLoadIfExists_ReadsFile(t *testing.T) {
	path := writeFile(t, "port: 9000\n")
	cfg := sample{Port: 1}
	found, err := LoadIfExists(path, &cfg)
	if err != nil || !found || cfg.Port != 9000 {
		t.Errorf("found = %v, err = %v, cfg = %+v", found, err, cfg)
	}
}
