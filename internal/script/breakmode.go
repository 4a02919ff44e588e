package script

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/docweave/docweave/internal/errors"
)

// BreakMode selects the strategy used to keep text lines within a maximum
// width.
type BreakMode string

const (
	// ModeBreak hard-splits a line into consecutive max-width chunks.
	ModeBreak BreakMode = "break"
	// ModeContinue hard-splits like ModeBreak and marks every chunk but the
	// last with a trailing backslash.
	ModeContinue BreakMode = "continue"
	// ModeWrap greedily word-wraps, breaking long words and at hyphens.
	ModeWrap BreakMode = "wrap"
	// ModeWrapNoBreaks greedily word-wraps but never splits a token; an
	// oversized token may exceed the width.
	ModeWrapNoBreaks BreakMode = "wrap-no-breaks"
	// ModeFill word-wraps like ModeWrap and indents continuation lines with
	// the line's original leading whitespace.
	ModeFill BreakMode = "fill"
	// ModeTruncate keeps the first max-width characters and drops the rest.
	ModeTruncate BreakMode = "truncate"
)

// ParseBreakMode maps a configuration string to its BreakMode. Unknown names
// fail with a configuration error naming the offending value.
func ParseBreakMode(s string) (BreakMode, error) {
	m := BreakMode(s)
	if err := m.valid(); err != nil {
		return "", err
	}
	return m, nil
}

// valid reports whether the mode is one of the declared policies.
func (m BreakMode) valid() error {
	switch m {
	case ModeBreak, ModeContinue, ModeWrap, ModeWrapNoBreaks, ModeFill, ModeTruncate:
		return nil
	}
	return errors.ValidationError(fmt.Sprintf("unrecognized line break mode %q", string(m)))
}

// AdjustLineWidths applies mode to every line longer than width. Lines at or
// below the width, and lines containing only whitespace, pass through
// unchanged. A width of zero or less returns the lines untouched. Widths are
// measured in runes.
func AdjustLineWidths(lines []string, width int, mode BreakMode) ([]string, error) {
	if width <= 0 {
		out := make([]string, len(lines))
		copy(out, lines)
		return out, nil
	}

	broken := make([]string, 0, len(lines))
	for _, l := range lines {
		runes := []rune(l)
		if strings.TrimSpace(l) == "" || len(runes) <= width {
			broken = append(broken, l)
			continue
		}

		switch mode {
		case ModeBreak:
			for len(runes) > 0 {
				n := min(width, len(runes))
				broken = append(broken, string(runes[:n]))
				runes = runes[n:]
			}

		case ModeContinue:
			for len(runes) > 0 {
				n := min(width, len(runes))
				part := string(runes[:n])
				runes = runes[n:]
				if len(runes) > 0 {
					part += "\\"
				}
				broken = append(broken, part)
			}

		case ModeWrap:
			broken = append(broken, wrapGreedy(l, width, wrapOptions{
				breakLongWords: true,
				breakOnHyphens: true,
			})...)

		case ModeWrapNoBreaks:
			broken = append(broken, wrapGreedy(l, width, wrapOptions{})...)

		case ModeFill:
			broken = append(broken, wrapGreedy(l, width, wrapOptions{
				breakLongWords:   true,
				breakOnHyphens:   true,
				subsequentIndent: leadingWhitespace(l),
			})...)

		case ModeTruncate:
			broken = append(broken, string(runes[:width]))

		default:
			return nil, errors.ValidationError(fmt.Sprintf("unrecognized line break mode %q", string(mode)))
		}
	}
	return broken, nil
}

// wrapOptions mirrors the knobs of the greedy wrapper: whether oversized
// tokens may be split, whether hyphenated compounds may break after the
// hyphen, and the indent carried onto continuation lines.
type wrapOptions struct {
	breakLongWords   bool
	breakOnHyphens   bool
	subsequentIndent string
}

// wrapUnit is one placeable token. joined units continue the previous unit
// (a hyphen split) and take no separating space.
type wrapUnit struct {
	text   []rune
	joined bool
}

// wrapGreedy reflows a single line to the given width using greedy placement.
// Leading whitespace of the line is preserved on the first output line; inner
// whitespace runs collapse to single spaces.
func wrapGreedy(line string, width int, opts wrapOptions) []string {
	indent := leadingWhitespace(line)
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}
	units := splitUnits(words, opts.breakOnHyphens)

	var out []string
	cur := []rune(indent)
	base := len(cur) // length of the indent prefix on the current line

	flush := func() {
		out = append(out, string(cur))
		cur = []rune(opts.subsequentIndent)
		base = len(cur)
	}

	for _, u := range units {
		t := u.text
		sep := 0
		if len(cur) > base && !u.joined {
			sep = 1
		}

		if len(cur)+sep+len(t) <= width {
			if sep == 1 {
				cur = append(cur, ' ')
			}
			cur = append(cur, t...)
			continue
		}

		// The unit does not fit on the current line. Units that fit on a
		// fresh line move there whole; so does everything when splitting is
		// disabled (the line then exceeds the width).
		if base+len(t) <= width || !opts.breakLongWords {
			if len(cur) > base {
				flush()
			}
			cur = append(cur, t...)
			continue
		}

		// Oversized unit: fill the remainder of the current line with its
		// head, then emit full-width chunks of the tail.
		if space := width - len(cur) - sep; space > 0 {
			if sep == 1 {
				cur = append(cur, ' ')
			}
			cur = append(cur, t[:space]...)
			t = t[space:]
		}
		if len(cur) > base {
			flush()
		}
		for chunk := max(width-base, 1); len(t) > chunk; chunk = max(width-base, 1) {
			cur = append(cur, t[:chunk]...)
			flush()
			t = t[chunk:]
		}
		cur = append(cur, t...)
	}

	if len(cur) > base {
		out = append(out, string(cur))
	}
	return out
}

// splitUnits turns words into placeable units, optionally splitting after
// hyphens that join word characters ("well-known" becomes "well-", "known").
func splitUnits(words []string, breakOnHyphens bool) []wrapUnit {
	units := make([]wrapUnit, 0, len(words))
	for _, w := range words {
		if !breakOnHyphens {
			units = append(units, wrapUnit{text: []rune(w)})
			continue
		}
		parts := splitAfterHyphens(w)
		for i, p := range parts {
			units = append(units, wrapUnit{text: p, joined: i > 0})
		}
	}
	return units
}

func splitAfterHyphens(w string) [][]rune {
	runes := []rune(w)
	var parts [][]rune
	start := 0
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == '-' && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
			parts = append(parts, runes[start:i+1])
			start = i + 1
		}
	}
	parts = append(parts, runes[start:])
	return parts
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// leadingWhitespace returns the whitespace prefix of l.
func leadingWhitespace(l string) string {
	return l[:len(l)-len(strings.TrimLeftFunc(l, unicode.IsSpace))]
}
