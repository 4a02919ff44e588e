package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/docweave/docweave/internal/errors"
	"github.com/docweave/docweave/internal/execx"
	"github.com/docweave/docweave/internal/metrics"
)

// blockPrefix is the literal-block header understood by the downstream
// documentation generator.
const blockPrefix = "\n.. code-block:: none\n\n"

// defaultCommandWidth bounds the displayed command line when no explicit
// width is configured.
const defaultCommandWidth = 64

// bannerWidth is the width of the delimiter line printed around execution
// failures.
const bannerWidth = 50

// Cleanup rewrites one rendered line before it is embedded. It receives the
// source file the block is generated for and the current line text, and
// returns the replacement (or the input unchanged).
type Cleanup func(sourceFile, line string) string

// Options configures Render. NewOptions returns the defaults the embedding
// directives historically relied on; the zero value renders with no
// interpreter, no prefix and no trailing blank line.
type Options struct {
	// SourceFile is the file the rendered block is embedded into. The
	// command runs with this file's directory as its working directory.
	SourceFile string

	// Interpreter is prepended to the command when non-empty.
	Interpreter string

	// IncludePrefix prepends the literal-block header to the result.
	IncludePrefix bool

	// IgnoreErrors keeps command failures from surfacing; whatever output
	// was captured is used as-is.
	IgnoreErrors bool

	// TrailingNewlines pads the result until it ends with a blank line;
	// when false the result is stripped and terminated with exactly one
	// newline.
	TrailingNewlines bool

	// BreakLinesAt is the maximum rendered line width. Zero disables all
	// width handling regardless of line length.
	BreakLinesAt int

	// BreakMode selects how overlong lines are brought within BreakLinesAt.
	// Empty means ModeBreak.
	BreakMode BreakMode

	// AdjustPython substitutes "python3" when the interpreter is the
	// historical default "python". The shim applies to exactly that one
	// name.
	AdjustPython bool

	// Cleanups are applied in order to every rendered line, command lines
	// included.
	Cleanups []Cleanup

	// Runner executes the command; nil uses execx.Default.
	Runner execx.Runner

	// Stdout receives diagnostic banners on failure; nil uses os.Stdout.
	Stdout io.Writer

	// Recorder counts runs by outcome; nil uses metrics.NoopRecorder.
	Recorder metrics.Recorder
}

// NewOptions returns Options with the historical defaults for source file
// embedding: python interpreter (version-adjusted), literal-block prefix,
// trailing blank line, no width limit.
func NewOptions(sourceFile string) Options {
	return Options{
		SourceFile:       sourceFile,
		Interpreter:      "python",
		IncludePrefix:    true,
		TrailingNewlines: true,
		BreakMode:        ModeBreak,
		AdjustPython:     true,
	}
}

// Render runs cmd in the directory of opts.SourceFile and returns its output
// formatted as a tab-indented literal block, command line included. See the
// package documentation for the failure policy.
func Render(ctx context.Context, cmd Command, opts Options) (string, error) {
	if cmd.empty() {
		return "", errors.ValidationError("script command must not be empty")
	}
	mode := opts.BreakMode
	if mode == "" {
		mode = ModeBreak
	}
	// Validate the break mode up front so a bad configuration fails before
	// any process is started.
	if err := mode.valid(); err != nil {
		return "", err
	}

	runner := opts.Runner
	if runner == nil {
		runner = execx.Default
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	rundir := filepath.Dir(opts.SourceFile)

	interpreter := opts.Interpreter
	if opts.AdjustPython && interpreter == "python" {
		interpreter = "python3"
	}

	execCmd := cmd.joined()
	if interpreter != "" {
		execCmd = interpreter + " " + execCmd
	}

	output, err := runner.CombinedText(ctx, rundir, execCmd, opts.IgnoreErrors)
	if err != nil {
		recorder.IncScriptRun(metrics.OutcomeFailure)
		if !opts.IgnoreErrors {
			banner := strings.Repeat("*", bannerWidth)
			fmt.Fprintln(stdout, banner)
			fmt.Fprintf(stdout, "ERROR run_script(%s) => %v\n", execCmd, err)
			fmt.Fprintln(stdout, banner)
			// Run the command a second time with the failure ignored so the
			// output it produced still reaches the console, then surface the
			// original failure.
			retryOut, _ := runner.CombinedText(ctx, rundir, execCmd, true)
			fmt.Fprintln(stdout, retryOut)
			fmt.Fprintln(stdout, banner)
			return "", err
		}
		slog.Debug("Ignoring script execution error", "command", execCmd, "error", err)
	} else {
		recorder.IncScriptRun(metrics.OutcomeSuccess)
	}

	var lines []string
	if cmd.split() {
		// Pre-split fragments keep their layout: continuation backslashes on
		// every line but the last, never width-adjusted.
		parts := cmd.parts
		first := parts[0] + " \\"
		if interpreter != "" {
			lines = append(lines, fmt.Sprintf("\t$ %s %s", interpreter, first))
		} else {
			lines = append(lines, "\t$ "+first)
		}
		for i := 1; i < len(parts)-1; i++ {
			lines = append(lines, parts[i]+" \\")
		}
		lines = append(lines, parts[len(parts)-1])
	} else {
		raw := "\t$ " + execCmd
		for _, cleanup := range opts.Cleanups {
			raw = cleanup(opts.SourceFile, raw)
		}
		cmdWidth := defaultCommandWidth
		if opts.BreakLinesAt > 0 {
			cmdWidth = opts.BreakLinesAt - 1
		}
		cmdLines, err := AdjustLineWidths([]string{raw}, cmdWidth, ModeContinue)
		if err != nil {
			return "", err
		}
		lines = append(lines, cmdLines...)
	}

	lines = append(lines, "") // blank separator
	lines = append(lines, splitLines(output)...)

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, cleanup := range opts.Cleanups {
			line = cleanup(opts.SourceFile, line)
		}
		cleaned = append(cleaned, line)
	}
	lines = cleaned

	if opts.BreakLinesAt > 0 {
		adjusted, err := AdjustLineWidths(lines, opts.BreakLinesAt, mode)
		if err != nil {
			return "", err
		}
		lines = adjusted
	}

	response := ""
	if opts.IncludePrefix {
		response = blockPrefix
	}
	response += strings.Join(lines, "\n\t")

	if opts.TrailingNewlines {
		for !strings.HasSuffix(response, "\n\n") {
			response += "\n"
		}
	} else {
		response = strings.TrimRightFunc(response, unicode.IsSpace) + "\n"
	}
	return response, nil
}

// splitLines splits captured output on line boundaries. A single trailing
// newline does not produce a trailing empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
