package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"reflect"
	"runtime"
	"strings"
	"syscall"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	got, err := SplitArgs(`-n 3 "two words" 'single quoted' plain\ escaped`)
	if err != nil {
		t.Fatalf("SplitArgs: %v", err)
	}
	want := []string{"-n", "3", "two words", "single quoted", "plain escaped"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %q, want %q", got, want)
	}

	if got, err := SplitArgs("   "); err != nil || got != nil {
		t.Errorf("blank = %q, %v", got, err)
	}
	if _, err := SplitArgs(`"unterminated`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestCommand_QuotesExtraArgs(t *testing.T) {
	got, err := Command("git log", []string{"--oneline", "a b"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "git log --oneline 'a b'" {
		t.Errorf("cmd = %q", got)
	}

	if got, _ := Command("ls", nil); got != "ls" {
		t.Errorf("no-args cmd = %q", got)
	}
}

func TestCommand_QuotedArgsRoundTrip(t *testing.T) {
	extra := []string{"it's", "$HOME", "semi;colon", ""}
	cmdline, err := Command("echo", extra)
	if err != nil {
		t.Fatal(err)
	}
	words, err := SplitArgs(strings.TrimPrefix(cmdline, "echo "))
	if err != nil {
		t.Fatalf("re-split %q: %v", cmdline, err)
	}
	if !reflect.DeepEqual(words, extra) {
		t.Errorf("round trip = %q, want %q", words, extra)
	}
}

func TestRun_ReturnsExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var out, errOut bytes.Buffer
	r := &Runner{Shell: "sh", Stdin: strings.NewReader(""), Stdout: &out, Stderr: &errOut}

	code, err := r.Run(context.Background(), "echo hello; exit 3", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if !strings.Contains(out.String(), "→ Executing: echo hello; exit 3") {
		t.Errorf("missing banner in %q", out.String())
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("missing command output in %q", out.String())
	}
	if strings.Contains(out.String(), clearScreen) {
		t.Error("screen cleared although ClearScreen is false")
	}
}

func TestRun_ShellMissing(t *testing.T) {
	r := &Runner{Shell: "definitely-not-a-shell-xyz"}
	_, err := r.Run(context.Background(), "true", nil)
	if !errors.Is(err, ErrShellNotFound) {
		t.Errorf("err = %v, want ErrShellNotFound", err)
	}
}

func TestRun_SignalDeathMapsTo128PlusSigno(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no POSIX signals")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := &Runner{Shell: "sh", Stdin: strings.NewReader(""), Stdout: io.Discard, Stderr: io.Discard}

	code, err := r.Run(context.Background(), "kill -KILL $$", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 128+int(syscall.SIGKILL) {
		t.Errorf("exit code = %d, want %d", code, 128+int(syscall.SIGKILL))
	}
}
