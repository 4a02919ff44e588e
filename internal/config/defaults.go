package config

import "path/filepath"

// Default values applied after unmarshalling. Empty fields mean "use the
// default", so a configuration file only states what differs.
const (
	DefaultDocroot  = "docs"
	DefaultBuilddir = ".build"
	DefaultPdflatex = "pdflatex"

	DefaultInterpreter = "python"
	DefaultBreakMode   = "break"

	DefaultScanPattern   = "*.rst"
	DefaultScanTool      = "cog"
	DefaultBeginMarker   = "[[[cog"
	DefaultEndMarker     = "]]]"
	DefaultEndOutput     = "[[[end]]]"
	DefaultLintPattern   = "*.md"
	DefaultVerifyBuilder = "html"
	DefaultEventsSubject = "docweave.builds"

	DefaultPreviewAddr     = ":8000"
	DefaultPreviewBuilder  = "html"
	DefaultPreviewDebounce = "300ms"
)

func applyDefaults(cfg *Config) {
	if cfg.Sphinx.Docroot == "" {
		cfg.Sphinx.Docroot = DefaultDocroot
	}
	if cfg.Sphinx.Builddir == "" {
		cfg.Sphinx.Builddir = DefaultBuilddir
	}
	if cfg.Sphinx.Pdflatex == "" {
		cfg.Sphinx.Pdflatex = DefaultPdflatex
	}

	if cfg.Script.Interpreter == "" {
		cfg.Script.Interpreter = DefaultInterpreter
	}
	if cfg.Script.AdjustPython == nil {
		cfg.Script.AdjustPython = boolPtr(true)
	}
	if cfg.Script.IncludePrefix == nil {
		cfg.Script.IncludePrefix = boolPtr(true)
	}
	if cfg.Script.TrailingNewlines == nil {
		cfg.Script.TrailingNewlines = boolPtr(true)
	}
	if cfg.Script.BreakMode == "" {
		cfg.Script.BreakMode = DefaultBreakMode
	}

	if cfg.Scan.Pattern == "" {
		cfg.Scan.Pattern = DefaultScanPattern
	}
	if cfg.Scan.Tool == "" {
		cfg.Scan.Tool = DefaultScanTool
	}
	if cfg.Scan.BeginMarker == "" {
		cfg.Scan.BeginMarker = DefaultBeginMarker
	}
	if cfg.Scan.EndMarker == "" {
		cfg.Scan.EndMarker = DefaultEndMarker
	}
	if cfg.Scan.EndOutputMarker == "" {
		cfg.Scan.EndOutputMarker = DefaultEndOutput
	}

	if cfg.Lint.Pattern == "" {
		cfg.Lint.Pattern = DefaultLintPattern
	}

	if cfg.Verify.Builder == "" {
		cfg.Verify.Builder = DefaultVerifyBuilder
	}

	if cfg.State.Path == "" {
		cfg.State.Path = filepath.Join(cfg.Sphinx.Docroot, cfg.Sphinx.Builddir, "state.db")
	}

	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventsSubject
	}

	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = DefaultPreviewAddr
	}
	if cfg.Preview.Builder == "" {
		cfg.Preview.Builder = DefaultPreviewBuilder
	}
	if cfg.Preview.Debounce == "" {
		cfg.Preview.Debounce = DefaultPreviewDebounce
	}
	if cfg.Preview.RebuildInterval == "" {
		cfg.Preview.RebuildInterval = "0"
	}
	if cfg.Preview.Watch == nil {
		cfg.Preview.Watch = boolPtr(true)
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

func boolPtr(v bool) *bool { return &v }
