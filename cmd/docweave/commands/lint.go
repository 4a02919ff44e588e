package commands

import (
	"os"
	"strings"

	"github.com/docweave/docweave/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Paths  []string `arg:"" optional:"" help:"Files or directories to lint (default: the configured source directory)"`
	Format string   `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Quiet  bool     `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	linter := lint.New(cfg)
	result, err := linter.Run(l.Paths)
	if err != nil {
		return err
	}

	target := linter.Basedir()
	if len(l.Paths) > 0 {
		target = strings.Join(l.Paths, ", ")
	}
	formatter := lint.NewFormatter(l.Format, l.Quiet)
	if err := formatter.Format(os.Stdout, result, target); err != nil {
		return err
	}

	// Exit codes: 2 blocks the build, 1 flags warnings worth a look.
	if result.HasErrors() {
		os.Exit(2)
	}
	if result.HasWarnings() && !l.Quiet {
		os.Exit(1)
	}
	return nil
}
