// Package scan locates documentation sources with embedded generator
// markers and runs the configured processor tool over them. Fingerprints
// stored in the state database let re-scans skip files whose content has
// not changed since they were last processed.
package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
	"github.com/docweave/docweave/internal/execx"
	"github.com/docweave/docweave/internal/gitinfo"
	"github.com/docweave/docweave/internal/state"
)

// Status classifies the outcome for one file.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult records the outcome for one scanned file.
type FileResult struct {
	Path   string
	Status Status
	Err    error
}

// Result aggregates a scan run.
type Result struct {
	Files     []FileResult
	Processed int
	Skipped   int
	Failed    int
}

// Scanner runs the processor tool over matching files.
type Scanner struct {
	section config.ScanSection
	basedir string
	store   *state.Store
	shell   execx.Runner

	force       bool
	changedOnly bool
}

// New returns a Scanner for the configuration. The base directory defaults
// to the resolved Sphinx source directory when the scan section leaves it
// empty. store may be nil to disable incremental skipping.
func New(cfg *config.Config, store *state.Store) *Scanner {
	basedir := cfg.Scan.Basedir
	if basedir == "" {
		basedir = filepath.Join(cfg.Sphinx.Docroot, cfg.Sphinx.Sourcedir)
	}
	return &Scanner{
		section: cfg.Scan,
		basedir: basedir,
		store:   store,
		shell:   execx.Default,
	}
}

// WithShell injects a custom shell runner.
func (s *Scanner) WithShell(sh execx.Runner) *Scanner {
	if sh != nil {
		s.shell = sh
	}
	return s
}

// WithForce disables incremental skipping for this run.
func (s *Scanner) WithForce(force bool) *Scanner {
	s.force = force
	return s
}

// WithChangedOnly restricts the run to files with uncommitted changes in
// the enclosing repository.
func (s *Scanner) WithChangedOnly(changed bool) *Scanner {
	s.changedOnly = changed
	return s
}

// Run scans the targets. Empty targets walk the base directory; a directory
// target is walked with the configured pattern; a file target is processed
// regardless of the pattern. Processing continues past individual failures;
// a non-nil error is returned when any file failed.
func (s *Scanner) Run(ctx context.Context, targets []string) (*Result, error) {
	files, err := s.collect(targets)
	if err != nil {
		return nil, err
	}

	if s.changedOnly {
		files, err = s.filterChanged(files)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{}
	for _, file := range files {
		fr := s.processFile(ctx, file)
		result.Files = append(result.Files, fr)
		switch fr.Status {
		case StatusProcessed:
			result.Processed++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}

	if s.store != nil && len(targets) == 0 && !s.changedOnly {
		// A full walk saw every live file, so stale rows can go.
		if dropped, err := s.store.Prune(ctx, livePaths(result)); err != nil {
			slog.Warn("Failed to prune scan state", "error", err)
		} else if dropped > 0 {
			slog.Debug("Pruned stale scan records", "count", dropped)
		}
	}

	slog.Info("Scan complete", "processed", result.Processed, "skipped", result.Skipped, "failed", result.Failed)
	if result.Failed > 0 {
		return result, errors.New(errors.CategoryScan, errors.SeverityError,
			fmt.Sprintf("%d of %d files failed to process", result.Failed, len(result.Files)))
	}
	return result, nil
}

// collect expands targets into the list of files to process.
func (s *Scanner) collect(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return s.walk(s.basedir)
	}

	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryScan,
				fmt.Sprintf("scan target not found: %s", target))
		}
		if info.IsDir() {
			walked, err := s.walk(target)
			if err != nil {
				return nil, err
			}
			files = append(files, walked...)
			continue
		}
		files = append(files, target)
	}
	return files, nil
}

// walk returns files under root matching the configured pattern. Dot
// directories are skipped so generated trees under the docroot (the default
// build directory included) are never rewritten.
func (s *Scanner) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		match, err := filepath.Match(s.section.Pattern, d.Name())
		if err != nil {
			return err
		}
		if match {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryScan,
			fmt.Sprintf("failed to walk %s", root))
	}
	return files, nil
}

// filterChanged keeps only files the enclosing repository reports as
// changed (uncommitted modifications, untracked files included).
func (s *Scanner) filterChanged(files []string) ([]string, error) {
	root, err := gitinfo.Root(s.basedir)
	if err != nil {
		if gitinfo.IsNotRepository(err) {
			return nil, errors.New(errors.CategoryScan, errors.SeverityError,
				"changed-only scan requires a git repository")
		}
		return nil, errors.WrapError(err, errors.CategoryScan, "failed to locate repository")
	}
	changed, err := gitinfo.ChangedFiles(s.basedir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryScan, "failed to read repository status")
	}

	changedAbs := make(map[string]struct{}, len(changed))
	for _, rel := range changed {
		changedAbs[filepath.Join(root, filepath.FromSlash(rel))] = struct{}{}
	}

	var kept []string
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		if _, ok := changedAbs[abs]; ok {
			kept = append(kept, file)
		}
	}
	slog.Debug("Restricted scan to changed files", "total", len(files), "changed", len(kept))
	return kept, nil
}

// processFile runs the tool over one file unless its fingerprint matches
// the stored one. The fingerprint recorded afterwards reflects the file as
// rewritten by the tool, so an untouched file skips on the next run.
func (s *Scanner) processFile(ctx context.Context, path string) FileResult {
	current, err := Fingerprint(path)
	if err != nil {
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}

	if s.store != nil && !s.force {
		stored, err := s.store.Fingerprint(ctx, path)
		if err == nil && stored != "" && stored == current {
			slog.Debug("Skipping unchanged file", "path", path)
			return FileResult{Path: path, Status: StatusSkipped}
		}
	}

	command := s.commandFor(path)
	slog.Debug("Processing file", "path", path, "command", command)
	if out, err := s.shell.CombinedText(ctx, filepath.Dir(path), command, false); err != nil {
		if out != "" {
			slog.Warn("Processor output", "path", path, "output", out)
		}
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}

	if s.store != nil {
		if updated, err := Fingerprint(path); err == nil {
			if err := s.store.SetFingerprint(ctx, path, updated); err != nil {
				slog.Warn("Failed to record fingerprint", "path", path, "error", err)
			}
		}
	}
	slog.Info("Processed file", "path", path)
	return FileResult{Path: path, Status: StatusProcessed}
}

// commandFor assembles the processor invocation for one file.
func (s *Scanner) commandFor(path string) string {
	parts := []string{s.section.Tool, "-r"}
	if s.section.DeleteCode {
		parts = append(parts, "-d")
	}
	for _, dir := range s.section.Include {
		parts = append(parts, "-I", shellQuote(dir))
	}
	markers := fmt.Sprintf("%s %s %s", s.section.BeginMarker, s.section.EndMarker, s.section.EndOutputMarker)
	parts = append(parts, "--markers", shellQuote(markers))
	parts = append(parts, shellQuote(path))
	return strings.Join(parts, " ")
}

// Fingerprint returns the hex sha256 of the file content.
func Fingerprint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryScan,
			fmt.Sprintf("failed to read %s", path))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func livePaths(result *Result) []string {
	paths := make([]string, 0, len(result.Files))
	for _, fr := range result.Files {
		if fr.Status != StatusFailed {
			paths = append(paths, fr.Path)
		}
	}
	return paths
}

// shellQuote wraps s in single quotes for the shell, escaping embedded
// single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
