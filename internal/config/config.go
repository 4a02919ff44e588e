// Package config loads and validates the docweave configuration file.
//
// Configuration is YAML with environment variable expansion; a .env or
// .env.local file next to the working directory is loaded first so the
// expansion can refer to project-local variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/docweave/docweave/internal/errors"
)

// CurrentVersion is the configuration format version this build reads.
const CurrentVersion = "1"

// Config is the root of the docweave configuration file.
type Config struct {
	Version string         `yaml:"version"`
	Project ProjectSection `yaml:"project"`
	Sphinx  SphinxSection  `yaml:"sphinx"`
	// Builders holds per-builder overrides keyed by builder name ("html",
	// "pdf", "epub", ...). Values override the base Sphinx section.
	Builders map[string]BuilderOverride `yaml:"builders,omitempty"`
	Script   ScriptSection              `yaml:"script"`
	Scan     ScanSection                `yaml:"scan"`
	Lint     LintSection                `yaml:"lint"`
	Verify   VerifySection              `yaml:"verify"`
	State    StateSection               `yaml:"state"`
	Events   EventsSection              `yaml:"events"`
	Preview  PreviewSection             `yaml:"preview"`
	Logging  LoggingSection             `yaml:"logging"`
}

// ProjectSection names the project.
type ProjectSection struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
}

// SphinxSection holds the base builder settings. Relative directories are
// resolved against Docroot the way the sphinx package documents.
type SphinxSection struct {
	Docroot   string `yaml:"docroot"`
	Builddir  string `yaml:"builddir"`
	Sourcedir string `yaml:"sourcedir,omitempty"`
	Confdir   string `yaml:"confdir,omitempty"`
	Outdir    string `yaml:"outdir,omitempty"`
	Doctrees  string `yaml:"doctrees,omitempty"`

	AllFiles       bool `yaml:"all_files,omitempty"`
	FreshEnv       bool `yaml:"fresh_env,omitempty"`
	WarningIsError bool `yaml:"warning_is_error,omitempty"`
	Quiet          bool `yaml:"quiet,omitempty"`

	ThemeOptions map[string]string `yaml:"theme_options,omitempty"`
	Settings     map[string]string `yaml:"settings,omitempty"`

	// Pdflatex is the command the latex Makefile invokes for PDF builds.
	Pdflatex string `yaml:"pdflatex,omitempty"`
}

// BuilderOverride overrides the base Sphinx section for one builder. Nil
// fields keep the base value; ThemeOptions and Settings merge key-wise on
// top of the base maps.
type BuilderOverride struct {
	Builder   *string `yaml:"builder,omitempty"`
	Docroot   *string `yaml:"docroot,omitempty"`
	Builddir  *string `yaml:"builddir,omitempty"`
	Sourcedir *string `yaml:"sourcedir,omitempty"`
	Confdir   *string `yaml:"confdir,omitempty"`
	Outdir    *string `yaml:"outdir,omitempty"`
	Doctrees  *string `yaml:"doctrees,omitempty"`

	AllFiles       *bool `yaml:"all_files,omitempty"`
	FreshEnv       *bool `yaml:"fresh_env,omitempty"`
	WarningIsError *bool `yaml:"warning_is_error,omitempty"`
	Quiet          *bool `yaml:"quiet,omitempty"`

	ThemeOptions map[string]string `yaml:"theme_options,omitempty"`
	Settings     map[string]string `yaml:"settings,omitempty"`

	Pdflatex *string `yaml:"pdflatex,omitempty"`
}

// ScriptSection configures script-output rendering defaults. Pointer fields
// distinguish "omitted" from an explicit false; Load resolves them.
type ScriptSection struct {
	Interpreter      string `yaml:"interpreter"`
	AdjustPython     *bool  `yaml:"adjust_python,omitempty"`
	IncludePrefix    *bool  `yaml:"include_prefix,omitempty"`
	TrailingNewlines *bool  `yaml:"trailing_newlines,omitempty"`
	BreakLinesAt     int    `yaml:"break_lines_at"`
	BreakMode        string `yaml:"break_mode"`
}

// ScanSection configures the embedded-code scanner.
type ScanSection struct {
	// Basedir is the directory walked for source files; empty means the
	// resolved Sphinx source directory.
	Basedir string   `yaml:"basedir,omitempty"`
	Pattern string   `yaml:"pattern"`
	Tool    string   `yaml:"tool"`
	Include []string `yaml:"include,omitempty"`

	BeginMarker     string `yaml:"begin_marker"`
	EndMarker       string `yaml:"end_marker"`
	EndOutputMarker string `yaml:"end_output_marker"`

	DeleteCode bool `yaml:"delete_code,omitempty"`
}

// LintSection configures the source document linter.
type LintSection struct {
	// Basedir is the directory walked for documents; empty means the
	// resolved Sphinx source directory.
	Basedir string `yaml:"basedir,omitempty"`
	Pattern string `yaml:"pattern"`
	// Fingerprints toggles the frontmatter fingerprint rule.
	Fingerprints *bool `yaml:"fingerprints,omitempty"`
}

// FingerprintsEnabled reports whether the fingerprint rule should run.
func (s LintSection) FingerprintsEnabled() bool {
	return derefBool(s.Fingerprints, true)
}

// VerifySection configures built-site link verification.
type VerifySection struct {
	// Builder whose output directory is verified.
	Builder string `yaml:"builder"`
	// External lists outbound links in the report. They are never fetched.
	External bool `yaml:"external,omitempty"`
}

// StateSection configures the incremental-scan state database.
type StateSection struct {
	// Path to the sqlite database; empty derives
	// <docroot>/<builddir>/state.db.
	Path string `yaml:"path,omitempty"`
}

// EventsSection configures build event publishing.
type EventsSection struct {
	// URL of the NATS server. Empty disables publishing.
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject"`
}

// PreviewSection configures the local preview server.
type PreviewSection struct {
	Addr string `yaml:"addr"`
	// Builder used for preview rebuilds.
	Builder string `yaml:"builder"`
	// Debounce delays rebuilds after a filesystem change so editor save
	// bursts trigger a single build. Duration string, e.g. "300ms".
	Debounce string `yaml:"debounce"`
	// RebuildInterval forces a periodic full rebuild; "0" disables it.
	RebuildInterval string `yaml:"rebuild_interval"`
	Watch           *bool  `yaml:"watch,omitempty"`
}

// LoggingSection configures the default logger.
type LoggingSection struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("configuration file not found: %s", configPath))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file")
	}

	return Parse(data)
}

// Parse expands environment variables in data, unmarshals it, applies
// defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config")
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion))
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads the first of .env/.env.local into the process
// environment. Variables already set are never overridden. A missing file is
// not an error.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", name, err)
			continue
		}
		return
	}
}
