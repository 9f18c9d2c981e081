package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer
	version   string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput sets where structured logs are written (stderr by default).
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithStdio sets the streams an executed alias inherits.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
		a.stderr = errOut
	}
}
