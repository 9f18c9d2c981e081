package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Environment variables read on top of the config file.
const (
	EnvRC     = "ALIAS_RUNNER_RC"
	EnvClear  = "ALIAS_RUNNER_CLEAR"
	EnvConfig = "ALIAS_RUNNER_CONFIG"
)

var suffixRe = regexp.MustCompile(`^\.[A-Za-z0-9_.-]+$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Source  SourceConfig      `yaml:"source"`
	Notes   NotesConfig       `yaml:"notes"`
	Runner  RunnerConfig      `yaml:"runner"`
	History HistoryConfig     `yaml:"history"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Notes.Validate(); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if err := c.Runner.Validate(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return c.Auth.Validate()
}

// ApplyEnv overrides file values with environment settings. lookup is
// os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRC); ok && v != "" {
		c.Source.RCPath = v
	}
	if v, ok := lookup(EnvClear); ok {
		c.Runner.Clear = clearEnabled(v)
	}
}

// ExpandPaths expands a leading ~ in every configured path.
func (c *Config) ExpandPaths() {
	c.Source.RCPath = ExpandHome(c.Source.RCPath)
	c.Notes.Path = ExpandHome(c.Notes.Path)
	c.History.Path = ExpandHome(c.History.Path)
}

// clearEnabled reports whether an ALIAS_RUNNER_CLEAR value keeps screen
// clearing on.
func clearEnabled(v string) bool {
	switch v {
	case "0", "false", "False", "":
		return false
	}
	return true
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourceConfig locates the root rc file and controls directory includes.
type SourceConfig struct {
	RCPath      string   `yaml:"rc_path"`
	DirSuffixes []string `yaml:"dir_suffixes"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RCPath, validation.Required),
		validation.Field(&c.DirSuffixes, validation.Each(validation.Required, validation.Match(suffixRe))),
	)
}

// NotesConfig holds the user note store location.
type NotesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RunnerConfig controls how aliases are executed.
type RunnerConfig struct {
	Shell string `yaml:"shell"`
	Clear bool   `yaml:"clear"`
}

// Validate validates the runner configuration.
func (c *RunnerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Shell, validation.Required),
	)
}

// HistoryConfig holds the run-history database settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8765,
			},
		},
		Source: SourceConfig{
			RCPath:      "~/.zshrc",
			DirSuffixes: []string{".zsh", ".sh"},
		},
		Notes: NotesConfig{
			Path: "~/.alias_runner_notes.json",
		},
		Runner: RunnerConfig{
			Shell: "zsh",
			Clear: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.alias_runner_history.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

// DefaultConfigPath returns ~/.config/aliasrunner/config.yaml.
func DefaultConfigPath() string {
	return ExpandHome("~/.config/aliasrunner/config.yaml")
}
