// Package commands wires the docweave subcommands to the library packages.
// Each command struct carries its kong grammar; the Run methods do the work.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/docweave/docweave/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docweave.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Html    HtmlCmd    `cmd:"" help:"Build the HTML documentation"`
	Pdf     PdfCmd     `cmd:"" help:"Build the PDF documentation (LaTeX plus make)"`
	Script  ScriptCmd  `cmd:"" help:"Run a command and render its output as a literal block"`
	Scan    ScanCmd    `cmd:"" help:"Run the embedded-code tool over matching source files"`
	Lint    LintCmd    `cmd:"" help:"Check documentation sources for problems"`
	Verify  VerifyCmd  `cmd:"" help:"Verify links and anchors in the built site"`
	Preview PreviewCmd `cmd:"" help:"Serve the built site locally and rebuild on changes"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. Commands that load
// a configuration refine this through configureLogging.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration named by the root flags and applies its
// logging section. --verbose wins over the configured level.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(cfg.Logging, root.Verbose)
	return cfg, nil
}

func configureLogging(section config.LoggingSection, verbose bool) {
	level := section.Level.Slog()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if section.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
