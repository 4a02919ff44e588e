package lint

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
)

// Linter applies the configured rules to matching documents.
type Linter struct {
	basedir string
	pattern string
	rules   []Rule
}

// New returns a Linter for the configuration. The base directory defaults
// to the resolved Sphinx source directory when the lint section leaves it
// empty.
func New(cfg *config.Config) *Linter {
	basedir := cfg.Lint.Basedir
	if basedir == "" {
		basedir = filepath.Join(cfg.Sphinx.Docroot, cfg.Sphinx.Sourcedir)
	}
	rules := []Rule{&RelativeLinkRule{Root: basedir}}
	if cfg.Lint.FingerprintsEnabled() {
		rules = append(rules, &FingerprintRule{})
	}
	return &Linter{basedir: basedir, pattern: cfg.Lint.Pattern, rules: rules}
}

// WithRules replaces the rule set.
func (l *Linter) WithRules(rules ...Rule) *Linter {
	l.rules = rules
	return l
}

// Basedir returns the directory walked when Run is given no targets.
func (l *Linter) Basedir() string {
	return l.basedir
}

// Run lints the targets. Empty targets walk the base directory; a directory
// target is walked with the configured pattern; a file target is checked
// regardless of the pattern. The caller decides how to treat a Result with
// findings; the returned error covers infrastructure failures only.
func (l *Linter) Run(targets []string) (*Result, error) {
	files, err := l.collect(targets)
	if err != nil {
		return nil, err
	}

	result := &Result{FilesTotal: len(files)}
	for _, file := range files {
		for _, rule := range l.rules {
			if !rule.AppliesTo(file) {
				continue
			}
			issues, err := rule.Check(file)
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryLint,
					fmt.Sprintf("rule %s failed on %s", rule.Name(), file))
			}
			result.Issues = append(result.Issues, issues...)
		}
	}

	slog.Info("Lint complete", "files", result.FilesTotal,
		"errors", result.ErrorCount(), "warnings", result.WarningCount())
	return result, nil
}

// collect expands targets into the list of files to check.
func (l *Linter) collect(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return l.walk(l.basedir)
	}

	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryLint,
				fmt.Sprintf("lint target not found: %s", target))
		}
		if info.IsDir() {
			walked, err := l.walk(target)
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
// directories are skipped so build output under the docroot is never
// linted.
func (l *Linter) walk(root string) ([]string, error) {
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
		match, err := filepath.Match(l.pattern, d.Name())
		if err != nil {
			return err
		}
		if match {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryLint,
			fmt.Sprintf("failed to walk %s", root))
	}
	return files, nil
}

// isMarkdown reports whether path names a Markdown document.
func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
