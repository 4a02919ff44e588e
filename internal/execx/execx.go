// Package execx runs shell commands on behalf of the build glue and captures
// their combined output. It is the single external-effect boundary used by
// the script renderer, the preprocessor scan, and the PDF post-build step.
package execx

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/docweave/docweave/internal/errors"
)

// Runner abstracts shell command execution so callers can substitute fakes.
//
// Contract:
//
//	CombinedText(ctx, dir, command, ignoreStatus) -> run command through the
//	shell with dir as the working directory and return interleaved
//	stdout+stderr as text. When ignoreStatus is true a nonzero exit status is
//	not an error and whatever output was produced is still returned; failures
//	to start the process always error.
type Runner interface {
	CombinedText(ctx context.Context, dir, command string, ignoreStatus bool) (string, error)
}

// ShellRunner executes commands with `sh -c`.
type ShellRunner struct{}

// Default is the Runner used when callers do not supply one.
var Default Runner = ShellRunner{}

// CombinedText implements Runner using os/exec.
func (ShellRunner) CombinedText(ctx context.Context, dir, command string, ignoreStatus bool) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	slog.Debug("Executing shell command", "dir", dir, "command", command)
	out, err := cmd.CombinedOutput()
	text := string(out)
	if err != nil {
		var exitErr *exec.ExitError
		if ignoreStatus && stderrors.As(err, &exitErr) {
			slog.Debug("Ignoring nonzero exit status", "command", command, "status", exitErr.ExitCode())
			return text, nil
		}
		return text, errors.ExecError(err, fmt.Sprintf("command failed: %s", command))
	}
	return text, nil
}
