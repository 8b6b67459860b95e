package vcs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// stubClient builds a runner whose binary is a shell script that fails for
// one subcommand and succeeds silently for everything else, standing in for
// a real VCS client.
func stubClient(t *testing.T, failingSubcommand string) *Runner {
	t.Helper()
	script := filepath.Join(t.TempDir(), "client")
	body := "#!/bin/sh\n" +
		"if [ \"$1\" = \"" + failingSubcommand + "\" ]; then\n" +
		"  echo 'stub: subcommand refused' >&2\n" +
		"  exit 1\n" +
		"fi\n" +
		"exit 0\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return &Runner{Lookup: func(string) string { return script }}
}

func TestRunnerCapturesOutput(t *testing.T) {
	r := NewRunner()

	out, err := r.Run(context.Background(), "", "sh", "-c", "echo stdout-line; echo stderr-line >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.Stdout, "stdout-line") {
		t.Errorf("stdout = %q", out.Stdout)
	}
	if !strings.Contains(out.Stderr, "stderr-line") {
		t.Errorf("stderr = %q", out.Stderr)
	}
}

func TestRunnerNonZeroExit(t *testing.T) {
	r := NewRunner()

	out, err := r.Run(context.Background(), "", "sh", "-c", "echo fatal: oops >&2; exit 128")
	if !apperrors.Is(err, apperrors.ErrCodeVCSClientFailure) {
		t.Fatalf("expected VCS_CLIENT_FAILURE, got %v", err)
	}
	// Output is returned even on failure so backends can inspect it.
	if !strings.Contains(out.Stderr, "fatal: oops") {
		t.Errorf("stderr = %q", out.Stderr)
	}
	if !strings.Contains(err.Error(), "fatal: oops") {
		t.Errorf("error should carry the client diagnostic, got %v", err)
	}
}

func TestRunnerClientNotFound(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(context.Background(), "", "definitely-not-a-vcs-client-3729")
	if !apperrors.Is(err, apperrors.ErrCodeClientNotFound) {
		t.Fatalf("expected CLIENT_NOT_FOUND, got %v", err)
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	r := NewRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "", "sh", "-c", "sleep 10")
	if !apperrors.Is(err, apperrors.ErrCodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestRunnerLookupOverride(t *testing.T) {
	r := &Runner{Lookup: func(name string) string {
		if name == "git" {
			return "sh"
		}
		return ""
	}}

	out, err := r.Run(context.Background(), "", "git", "-c", "echo overridden")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.Stdout, "overridden") {
		t.Errorf("stdout = %q", out.Stdout)
	}
}

func TestOutputLines(t *testing.T) {
	out := Output{Stdout: "one\r\ntwo\n\nthree\n"}
	lines := out.Lines()
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct{ in, want string }{
		{"fatal: bad ref\nhint: try again", "fatal: bad ref"},
		{"\n\n  warning: slow\n", "warning: slow"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
