package config

import (
	"fmt"
	"time"

	"github.com/docweave/docweave/internal/errors"
	"github.com/docweave/docweave/internal/script"
)

// validate checks the configuration after defaults have been applied.
// Violations surface as validation errors so the CLI can report them
// distinctly from load failures.
func validate(cfg *Config) error {
	if _, err := script.ParseBreakMode(cfg.Script.BreakMode); err != nil {
		return err
	}
	if cfg.Script.BreakLinesAt < 0 {
		return validationErrorf("script.break_lines_at must not be negative: %d", cfg.Script.BreakLinesAt)
	}

	for name, ov := range cfg.Builders {
		if name == "" {
			return validationErrorf("builders: builder name cannot be empty")
		}
		if ov.Builder != nil && *ov.Builder == "" {
			return validationErrorf("builders.%s: builder override cannot be empty", name)
		}
		if ov.Docroot != nil && *ov.Docroot == "" {
			return validationErrorf("builders.%s: docroot override cannot be empty", name)
		}
		if ov.Builddir != nil && *ov.Builddir == "" {
			return validationErrorf("builders.%s: builddir override cannot be empty", name)
		}
	}

	if _, err := time.ParseDuration(cfg.Preview.Debounce); err != nil {
		return validationErrorf("preview.debounce is not a duration: %q", cfg.Preview.Debounce)
	}
	if _, err := time.ParseDuration(cfg.Preview.RebuildInterval); err != nil {
		return validationErrorf("preview.rebuild_interval is not a duration: %q", cfg.Preview.RebuildInterval)
	}

	return nil
}

func validationErrorf(format string, args ...any) error {
	return errors.New(errors.CategoryValidation, errors.SeverityFatal, fmt.Sprintf(format, args...))
}
