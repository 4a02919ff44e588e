// Package sphinx drives documentation builds through the external
// sphinx-build binary: it resolves the directory layout for a configured
// builder, assembles the argument vector, and runs the build (plus the
// LaTeX make step for PDF output).
package sphinx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/execx"
	"github.com/docweave/docweave/internal/gitinfo"
)

// BuildReport summarizes one completed build.
type BuildReport struct {
	ID            string        `json:"id"`
	Builder       string        `json:"builder"`        // configured name, e.g. "pdf"
	SphinxBuilder string        `json:"sphinx_builder"` // -b value, e.g. "latex"
	SourceDir     string        `json:"source_dir"`
	OutputDir     string        `json:"output_dir"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	Commit        string        `json:"commit,omitempty"`
	Dirty         bool          `json:"dirty,omitempty"`
}

// Builder runs configured documentation builds.
type Builder struct {
	cfg    *config.Config
	runner Runner
	shell  execx.Runner
}

// NewBuilder returns a Builder using the external sphinx-build binary and
// the default shell runner.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:    cfg,
		runner: &BinaryRunner{},
		shell:  execx.Default,
	}
}

// WithRunner injects a custom build runner.
func (b *Builder) WithRunner(r Runner) *Builder {
	if r != nil {
		b.runner = r
	}
	return b
}

// WithShell injects a custom shell runner for post-build steps.
func (b *Builder) WithShell(sh execx.Runner) *Builder {
	if sh != nil {
		b.shell = sh
	}
	return b
}

// Html builds the html builder configuration.
func (b *Builder) Html(ctx context.Context) (*BuildReport, error) {
	return b.Build(ctx, "html")
}

// Pdf builds the pdf configuration and then runs make in the output
// directory so the generated LaTeX is compiled into a PDF.
func (b *Builder) Pdf(ctx context.Context) (*BuildReport, error) {
	report, err := b.Build(ctx, "pdf")
	if err != nil {
		return report, err
	}

	section, _ := b.cfg.ResolveBuilder("pdf")
	makeCmd := fmt.Sprintf(`PDFLATEX="%s" make -e`, section.Pdflatex)
	slog.Info("Compiling PDF", "dir", report.OutputDir, "pdflatex", section.Pdflatex)
	if _, err := b.shell.CombinedText(ctx, report.OutputDir, makeCmd, false); err != nil {
		return report, err
	}
	return report, nil
}

// Build resolves paths for the named builder configuration, ensures the
// output directories exist, and runs the builder.
func (b *Builder) Build(ctx context.Context, name string) (*BuildReport, error) {
	section, sphinxBuilder := b.cfg.ResolveBuilder(name)

	paths, err := Resolve(section, sphinxBuilder)
	if err != nil {
		return nil, err
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	report := &BuildReport{
		ID:            uuid.New().String(),
		Builder:       name,
		SphinxBuilder: sphinxBuilder,
		SourceDir:     paths.Srcdir,
		OutputDir:     paths.Outdir,
		StartedAt:     time.Now(),
	}
	if info, err := gitinfo.Describe(paths.Docroot); err == nil {
		report.Commit = info.Commit
		report.Dirty = info.Dirty
	}

	args := BuildArgs(section, sphinxBuilder, paths)
	slog.Info("Building documentation", "builder", name, "sphinx_builder", sphinxBuilder,
		"srcdir", paths.Srcdir, "outdir", paths.Outdir)

	if err := b.runner.Build(ctx, args); err != nil {
		return nil, err
	}

	report.Duration = time.Since(report.StartedAt)
	slog.Info("Build complete", "builder", name, "duration", report.Duration, "build_id", report.ID)
	return report, nil
}
