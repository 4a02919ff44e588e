package lint

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		FilesTotal: 3,
		Issues: []Issue{
			{
				FilePath: "docs/source/index.md",
				Severity: SeverityError,
				Rule:     "relative-links",
				Message:  "link target does not exist: missing.md",
			},
			{
				FilePath:    "docs/source/guide.md",
				Severity:    SeverityWarning,
				Rule:        "content-fingerprint",
				Message:     "content fingerprint is stale",
				Explanation: "The document body changed after the fingerprint was computed.",
				Fix:         "Regenerate the fingerprint with the mdfp tooling.",
			},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter("text", false).Format(&buf, sampleResult(), "docs/source")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Linting documentation in: docs/source")
	assert.Contains(t, out, "✗ docs/source/index.md")
	assert.Contains(t, out, "ERROR: link target does not exist: missing.md [relative-links]")
	assert.Contains(t, out, "⚠ docs/source/guide.md")
	assert.Contains(t, out, "The document body changed after the fingerprint was computed.")
	assert.Contains(t, out, "Fix: Regenerate the fingerprint with the mdfp tooling.")
	assert.Contains(t, out, "3 files scanned")
	assert.Contains(t, out, "1 error (blocks build)")
	assert.Contains(t, out, "1 warning (should fix)")
	assert.Contains(t, out, "errors that will block the build")
}

func TestTextFormatterQuiet(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter("text", true).Format(&buf, sampleResult(), "docs/source")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✗ docs/source/index.md")
	assert.NotContains(t, out, "guide.md")
	assert.NotContains(t, out, "warning (should fix)")
}

func TestTextFormatterCleanRun(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter("text", false).Format(&buf, &Result{FilesTotal: 5}, "docs/source")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "5 files scanned")
	assert.Contains(t, buf.String(), "✓ All documentation passes linting.")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter("json", true).Format(&buf, sampleResult(), "docs/source")
	require.NoError(t, err)

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "docs/source", out.Path)
	assert.Equal(t, 3, out.FilesTotal)
	assert.Equal(t, 1, out.ErrorCount)
	assert.Equal(t, 1, out.WarningCount)
	// Quiet never filters machine output.
	require.Len(t, out.Issues, 2)
	assert.Equal(t, "ERROR", out.Issues[0].Severity)
	assert.Equal(t, "relative-links", out.Issues[0].Rule)
	assert.Equal(t, "Regenerate the fingerprint with the mdfp tooling.", out.Issues[1].Fix)
}
