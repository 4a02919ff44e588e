package commands

import (
	"context"
	"fmt"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/sphinx"
)

// HtmlCmd implements the 'html' command.
type HtmlCmd struct {
	All      bool `short:"a" help:"Write all output files, not just those with changed sources"`
	FreshEnv bool `short:"E" name:"fresh-env" help:"Rebuild the environment instead of reusing saved state"`
	Strict   bool `short:"W" help:"Treat builder warnings as errors"`
}

func (h *HtmlCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	overrideBuilder(cfg, "html", h.All, h.FreshEnv, h.Strict)

	report, err := sphinx.NewBuilder(cfg).Html(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Build finished. The HTML pages are in %s.\n", report.OutputDir)
	return nil
}

// PdfCmd implements the 'pdf' command.
type PdfCmd struct {
	All      bool `short:"a" help:"Write all output files, not just those with changed sources"`
	FreshEnv bool `short:"E" name:"fresh-env" help:"Rebuild the environment instead of reusing saved state"`
	Strict   bool `short:"W" help:"Treat builder warnings as errors"`
}

func (p *PdfCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	overrideBuilder(cfg, "pdf", p.All, p.FreshEnv, p.Strict)

	report, err := sphinx.NewBuilder(cfg).Pdf(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Build finished. The PDF files are in %s.\n", report.OutputDir)
	return nil
}

// overrideBuilder layers the build flags over the builder's config entry so
// they win regardless of where the configuration sets the same key.
func overrideBuilder(cfg *config.Config, name string, all, freshEnv, strict bool) {
	if !all && !freshEnv && !strict {
		return
	}
	if cfg.Builders == nil {
		cfg.Builders = make(map[string]config.BuilderOverride)
	}
	on := true
	ov := cfg.Builders[name]
	if all {
		ov.AllFiles = &on
	}
	if freshEnv {
		ov.FreshEnv = &on
	}
	if strict {
		ov.WarningIsError = &on
	}
	cfg.Builders[name] = ov
}
