package commands

import (
	"context"
	"fmt"

	"github.com/docweave/docweave/internal/script"
)

// ScriptCmd implements the 'script' command: run one command and print its
// output formatted as a tab-indented literal block, ready to paste (or be
// generated) into a source file.
type ScriptCmd struct {
	Source  string   `arg:"" help:"Source file the block belongs to; the command runs in its directory"`
	Command []string `arg:"" help:"Command to run. Repeat to render a backslash-continued fragment sequence"`

	Interpreter        string `short:"i" help:"Interpreter prepended to the command (configured default when unset)"`
	NoInterpreter      bool   `name:"no-interpreter" help:"Run the command bare, without an interpreter"`
	Width              int    `short:"w" default:"-1" help:"Maximum rendered line width; 0 disables line handling"`
	BreakMode          string `name:"break-mode" help:"How overlong lines are handled (break, continue, wrap, wrap-no-breaks, fill, truncate)"`
	NoPrefix           bool   `name:"no-prefix" help:"Omit the code-block header"`
	IgnoreErrors       bool   `name:"ignore-errors" help:"Render whatever output a failing command produced"`
	NoTrailingNewlines bool   `name:"no-trailing-newlines" help:"End with a single newline instead of a blank line"`
}

func (s *ScriptCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	opts, err := cfg.Script.RendererOptions(s.Source)
	if err != nil {
		return err
	}

	if s.Interpreter != "" {
		opts.Interpreter = s.Interpreter
	}
	if s.NoInterpreter {
		opts.Interpreter = ""
	}
	if s.Width >= 0 {
		opts.BreakLinesAt = s.Width
	}
	if s.BreakMode != "" {
		mode, err := script.ParseBreakMode(s.BreakMode)
		if err != nil {
			return err
		}
		opts.BreakMode = mode
	}
	if s.NoPrefix {
		opts.IncludePrefix = false
	}
	if s.NoTrailingNewlines {
		opts.TrailingNewlines = false
	}
	opts.IgnoreErrors = s.IgnoreErrors

	var cmd script.Command
	if len(s.Command) == 1 {
		cmd = script.Line(s.Command[0])
	} else {
		cmd = script.Parts(s.Command...)
	}

	out, err := script.Render(context.Background(), cmd, opts)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
