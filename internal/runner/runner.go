// Package runner executes an alias body in an interactive login shell.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// clearScreen resets attributes, clears the screen and homes the cursor.
const clearScreen = "\033[0m\033[2J\033[H"

// ErrShellNotFound is returned when the configured shell is not on PATH.
var ErrShellNotFound = errors.New("shell not found on PATH")

// Runner runs alias bodies.
type Runner struct {
	Shell       string
	ClearScreen bool
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// New returns a Runner wired to the process's standard streams.
func New(shellName string, clearFirst bool) *Runner {
	if shellName == "" {
		shellName = "zsh"
	}
	return &Runner{
		Shell:       shellName,
		ClearScreen: clearFirst,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// SplitArgs splits a user-typed argument string into words using shell
// quoting rules. Variables are expanded from the environment.
func SplitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args, err := shell.Fields(s, nil)
	if err != nil {
		return nil, fmt.Errorf("runner: split args: %w", err)
	}
	return args, nil
}

// Command appends each extra argument, shell-quoted, to body.
func Command(body string, extra []string) (string, error) {
	if len(extra) == 0 {
		return body, nil
	}
	parts := make([]string, 0, len(extra)+1)
	parts = append(parts, body)
	for _, a := range extra {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("runner: quote %q: %w", a, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}

// exitStatus reports a death by signal the way shells do, as 128+signo.
func exitStatus(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}

// Run executes body with extra arguments as `<shell> -ic <cmd>` and returns
// the command's exit status. A non-zero status is not an error; a command
// killed by a signal reports 128 plus the signal number.
func (r *Runner) Run(ctx context.Context, body string, extra []string) (int, error) {
	bin, err := exec.LookPath(r.Shell)
	if err != nil {
		return -1, fmt.Errorf("%s: %w", r.Shell, ErrShellNotFound)
	}
	cmdline, err := Command(body, extra)
	if err != nil {
		return -1, err
	}

	if r.ClearScreen {
		fmt.Fprint(r.Stdout, clearScreen)
	}
	fmt.Fprintf(r.Stdout, "→ Executing: %s\n\n", cmdline)

	cmd := exec.CommandContext(ctx, bin, "-ic", cmdline)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitStatus(exitErr), nil
		}
		return -1, fmt.Errorf("runner: %w", err)
	}
	return 0, nil
}
