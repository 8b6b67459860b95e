package vcs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/observability"
)

// Runner invokes external VCS client programs. Standard output and standard
// error are captured in their entirety, the call blocks until the process
// exits, and a non-zero exit status becomes a structured error carrying the
// client's diagnostics. Runner holds no state and is safe for concurrent use.
type Runner struct {
	// Lookup overrides the binary name before execution, letting callers
	// point at a specific client installation. Nil means use the name as-is.
	Lookup func(name string) string
}

// NewRunner creates a runner that resolves client binaries via PATH.
func NewRunner() *Runner {
	return &Runner{}
}

// Output holds the complete captured output of one client invocation.
type Output struct {
	Stdout string
	Stderr string
}

// Lines returns the non-empty lines of standard output.
func (o Output) Lines() []string {
	var lines []string
	for _, line := range strings.Split(o.Stdout, "\n") {
		if trimmed := strings.TrimRight(line, "\r"); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// Run executes name with args in dir (empty dir means the current working
// directory) and blocks until the process exits. The full output is returned
// even when the command fails so backends can apply more specific
// interpretation of the client's diagnostics.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	binary := name
	if r.Lookup != nil {
		if resolved := r.Lookup(name); resolved != "" {
			binary = resolved
		}
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	observability.Command().OnCommandStart(ctx, name, args)
	start := time.Now()
	err := cmd.Run()
	observability.Command().OnCommandComplete(ctx, name, args, time.Since(start), err)

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return out, apperrors.Wrap(apperrors.ErrCodeClientNotFound, err,
			"%s client is not installed", name)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, apperrors.Wrap(apperrors.ErrCodeTimeout, ctxErr,
			"%s %s interrupted", name, strings.Join(args, " "))
	}

	detail := firstLine(out.Stderr)
	if detail == "" {
		detail = err.Error()
	}
	return out, apperrors.Wrap(apperrors.ErrCodeVCSClientFailure, err,
		"%s %s: %s", name, strings.Join(args, " "), detail)
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
