package config

import (
	"time"

	"github.com/docweave/docweave/internal/script"
)

// RendererOptions converts the script section into renderer options for the
// given source file. The section must have passed Load so the break mode is
// known to be valid and the pointer fields are resolved.
func (s ScriptSection) RendererOptions(sourceFile string) (script.Options, error) {
	mode, err := script.ParseBreakMode(s.BreakMode)
	if err != nil {
		return script.Options{}, err
	}
	return script.Options{
		SourceFile:       sourceFile,
		Interpreter:      s.Interpreter,
		AdjustPython:     derefBool(s.AdjustPython, true),
		IncludePrefix:    derefBool(s.IncludePrefix, true),
		TrailingNewlines: derefBool(s.TrailingNewlines, true),
		BreakLinesAt:     s.BreakLinesAt,
		BreakMode:        mode,
	}, nil
}

// DebounceDuration returns the parsed debounce delay. Unparseable values
// fall back to the default; Load validates them beforehand.
func (p PreviewSection) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(p.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// RebuildIntervalDuration returns the parsed periodic rebuild interval;
// zero means disabled.
func (p PreviewSection) RebuildIntervalDuration() time.Duration {
	d, err := time.ParseDuration(p.RebuildInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// WatchEnabled reports whether the preview server watches the source tree.
func (p PreviewSection) WatchEnabled() bool {
	return derefBool(p.Watch, true)
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
