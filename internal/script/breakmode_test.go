package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/errors"
)

func TestParseBreakMode(t *testing.T) {
	for _, name := range []string{"break", "continue", "wrap", "wrap-no-breaks", "fill", "truncate"} {
		m, err := ParseBreakMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, string(m))
	}

	_, err := ParseBreakMode("zigzag")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
	assert.Contains(t, err.Error(), `"zigzag"`)
}

func TestAdjustLineWidthsPassThrough(t *testing.T) {
	lines := []string{
		"short",
		"",
		"   \t  ", // whitespace-only lines pass through even when overlong
		"exactly10!",
	}
	got, err := AdjustLineWidths(lines, 10, ModeBreak)
	require.NoError(t, err)
	assert.Equal(t, lines, got)

	// Width zero disables all handling.
	long := []string{strings.Repeat("x", 500)}
	got, err = AdjustLineWidths(long, 0, ModeBreak)
	require.NoError(t, err)
	assert.Equal(t, long, got)
}

func TestAdjustLineWidthsBreak(t *testing.T) {
	got, err := AdjustLineWidths([]string{strings.Repeat("a", 10)}, 4, ModeBreak)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "aaaa", "aa"}, got)
}

func TestAdjustLineWidthsContinue(t *testing.T) {
	got, err := AdjustLineWidths([]string{strings.Repeat("a", 10)}, 4, ModeContinue)
	require.NoError(t, err)
	// Every chunk except the last carries the continuation backslash.
	assert.Equal(t, []string{`aaaa\`, `aaaa\`, "aa"}, got)
}

func TestBreakAndContinueChunkCount(t *testing.T) {
	for _, tc := range []struct {
		length, width, chunks int
	}{
		{10, 4, 3},
		{12, 4, 3},
		{13, 4, 4},
		{100, 7, 15},
	} {
		line := strings.Repeat("x", tc.length)
		for _, mode := range []BreakMode{ModeBreak, ModeContinue} {
			got, err := AdjustLineWidths([]string{line}, tc.width, mode)
			require.NoError(t, err)
			assert.Len(t, got, tc.chunks, "length=%d width=%d mode=%s", tc.length, tc.width, mode)
		}
	}
}

func TestAdjustLineWidthsTruncate(t *testing.T) {
	got, err := AdjustLineWidths([]string{"abcdefghij"}, 6, ModeTruncate)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcdef"}, got)
}

func TestAdjustLineWidthsWrap(t *testing.T) {
	got, err := AdjustLineWidths([]string{"the quick brown fox jumps over the lazy dog"}, 10, ModeWrap)
	require.NoError(t, err)
	for _, l := range got {
		assert.LessOrEqual(t, len([]rune(l)), 10, "line %q exceeds width", l)
	}
	assert.Equal(t, "the quick", got[0])
}

func TestWrapBreaksLongWords(t *testing.T) {
	got, err := AdjustLineWidths([]string{"hello aaaaaaaaaaaa"}, 8, ModeWrap)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello aa", "aaaaaaaa", "aa"}, got)
}

func TestWrapNoBreaksKeepsTokensWhole(t *testing.T) {
	got, err := AdjustLineWidths([]string{"hello aaaaaaaaaaaa"}, 8, ModeWrapNoBreaks)
	require.NoError(t, err)
	// The oversized token lands alone on its own line and may exceed the width.
	assert.Equal(t, []string{"hello", "aaaaaaaaaaaa"}, got)
}

func TestWrapBreaksOnHyphens(t *testing.T) {
	got, err := AdjustLineWidths([]string{"supercalifragilistic-expialidocious"}, 25, ModeWrap)
	require.NoError(t, err)
	assert.Equal(t, []string{"supercalifragilistic-", "expialidocious"}, got)

	got, err = AdjustLineWidths([]string{"supercalifragilistic-expialidocious"}, 25, ModeWrapNoBreaks)
	require.NoError(t, err)
	assert.Equal(t, []string{"supercalifragilistic-expialidocious"}, got)
}

func TestAdjustLineWidthsFill(t *testing.T) {
	got, err := AdjustLineWidths([]string{"    indented text that is long enough to wrap around"}, 20, ModeFill)
	require.NoError(t, err)
	require.Greater(t, len(got), 1)
	for i, l := range got {
		assert.True(t, strings.HasPrefix(l, "    "), "line %d %q lost the indent", i, l)
		assert.LessOrEqual(t, len([]rune(l)), 20)
	}
}

func TestWrapIdempotent(t *testing.T) {
	input := []string{"the quick brown fox jumps over the lazy dog and keeps on running"}
	once, err := AdjustLineWidths(input, 16, ModeWrap)
	require.NoError(t, err)
	twice, err := AdjustLineWidths(once, 16, ModeWrap)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestAdjustLineWidthsRuneWidths(t *testing.T) {
	// Widths are rune counts, not byte counts.
	got, err := AdjustLineWidths([]string{"éééééééééé"}, 4, ModeBreak)
	require.NoError(t, err)
	assert.Equal(t, []string{"éééé", "éééé", "éé"}, got)
}

func TestAdjustLineWidthsUnknownMode(t *testing.T) {
	_, err := AdjustLineWidths([]string{strings.Repeat("a", 50)}, 10, BreakMode("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestAllModesRespectWidth(t *testing.T) {
	lines := []string{
		"a plain sentence with a few reasonably sized words in it",
		strings.Repeat("z", 97),
		"   indented continuation material for the fill mode to chew on",
		"hyphen-joined compound-word content mixed-in with plain text",
	}
	for _, mode := range []BreakMode{ModeBreak, ModeWrap, ModeFill, ModeTruncate} {
		got, err := AdjustLineWidths(lines, 18, mode)
		require.NoError(t, err, mode)
		for _, l := range got {
			assert.LessOrEqual(t, len([]rune(l)), 18, "mode=%s line=%q", mode, l)
		}
	}
}
