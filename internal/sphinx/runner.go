package sphinx

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"github.com/docweave/docweave/internal/errors"
)

// DefaultCommand is the builder binary looked up on PATH.
const DefaultCommand = "sphinx-build"

// Runner abstracts how the documentation builder is executed. BinaryRunner
// invokes the external binary; tests swap in a recording implementation.
type Runner interface {
	Build(ctx context.Context, args []string) error
}

// BinaryRunner invokes the sphinx-build binary present on PATH.
type BinaryRunner struct {
	// Command overrides the binary name; empty means DefaultCommand.
	Command string
}

func (r *BinaryRunner) Build(ctx context.Context, args []string) error {
	bin := r.Command
	if bin == "" {
		bin = DefaultCommand
	}
	if _, err := exec.LookPath(bin); err != nil {
		return errors.Wrap(err, errors.CategorySphinx, errors.SeverityFatal,
			bin+" not found in PATH")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Invoking builder", "command", bin, "args", args)

	err := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("builder stdout", "output", out)
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("builder stderr", "error_output", errOut)
	}

	if err != nil {
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		}
		be := errors.WrapError(err, errors.CategorySphinx, "builder execution failed")
		if output != "" {
			be = be.WithContext("output", output)
		}
		return be
	}
	return nil
}

// NoopRunner performs no build; useful in tests or when only path
// scaffolding is desired.
type NoopRunner struct{}

func (NoopRunner) Build(_ context.Context, args []string) error {
	slog.Debug("NoopRunner skipping build", "args", args)
	return nil
}
