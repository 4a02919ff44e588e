package lint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T, basedir string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("version: \"1\"\n"))
	require.NoError(t, err)
	cfg.Lint.Basedir = basedir
	return cfg
}

// fingerprinted builds a document whose declared fingerprint is current.
// The frontmatter must already be in canonical form (LF newlines, sorted
// keys) since the rule recomputes the hash from a canonical serialization.
func fingerprinted(frontmatter, body string) string {
	fp := mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(frontmatter, "\n"), body)
	return "---\n" + frontmatter + mdfp.FingerprintField + ": " + fp + "\n---\n" + body
}

func TestRunWalksMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "[setup](guide/setup.md)\n")
	writeFile(t, filepath.Join(dir, "guide", "setup.md"), "[missing](nope.md)\n")
	writeFile(t, filepath.Join(dir, ".build", "out.md"), "[also missing](nope.md)\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a document\n")

	result, err := New(testConfig(t, dir)).Run(nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesTotal)
	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, filepath.Join(dir, "guide", "setup.md"), issue.FilePath)
	assert.Equal(t, "relative-links", issue.Rule)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Contains(t, issue.Message, "nope.md")
	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.ErrorCount())
}

func TestRunExplicitFileTarget(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "readme.markdown")
	writeFile(t, doc, "[broken](missing.md)\n")

	result, err := New(testConfig(t, dir)).Run([]string{doc})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesTotal)
	assert.Equal(t, 1, result.ErrorCount())
}

func TestRunMissingTarget(t *testing.T) {
	dir := t.TempDir()

	_, err := New(testConfig(t, dir)).Run([]string{filepath.Join(dir, "absent.md")})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLint))
}

func TestRelativeLinkResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "guide", "doc.md"), "")
	writeFile(t, filepath.Join(dir, "guide", "here.md"), "")
	writeFile(t, filepath.Join(dir, "top.md"), "")

	doc := filepath.Join(dir, "guide", "doc.md")
	writeFile(t, doc, `[sibling](here.md)
[rooted](/top.md)
[fragment](here.md#section)
[query](here.md?raw=true)
[anchor only](#local)
[external](https://example.com/gone.md)
[mail](mailto:docs@example.com)
[broken](missing.md)
[broken rooted](/missing.md)
`)

	rule := &RelativeLinkRule{Root: dir}
	issues, err := rule.Check(doc)
	require.NoError(t, err)

	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, "missing.md")
	assert.Contains(t, issues[1].Message, "/missing.md")
}

func TestRelativeLinkNoRootSkipsAbsolute(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	writeFile(t, doc, "[rooted](/anything.md)\n")

	issues, err := (&RelativeLinkRule{}).Check(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestFingerprintCurrent(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	writeFile(t, doc, fingerprinted("title: Guide\n", "\nSome body text.\n"))

	issues, err := (&FingerprintRule{}).Check(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestFingerprintIgnoresVolatileFields(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	body := "\nSome body text.\n"
	fp := mdfp.CalculateFingerprintFromParts("title: Guide", body)
	content := "---\ntitle: Guide\nlastmod: 2025-06-01\n" +
		mdfp.FingerprintField + ": " + fp + "\n---\n" + body
	writeFile(t, doc, content)

	issues, err := (&FingerprintRule{}).Check(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestFingerprintStale(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	current := fingerprinted("title: Guide\n", "\nSome body text.\n")
	writeFile(t, doc, current+"\nEdited after fingerprinting.\n")

	issues, err := (&FingerprintRule{}).Check(doc)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, "content-fingerprint", issues[0].Rule)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "stale")
}

func TestFingerprintUnverifiable(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	writeFile(t, doc, "---\n"+mdfp.FingerprintField+": abc\nbad: [unclosed\n---\n\nBody.\n")

	issues, err := (&FingerprintRule{}).Check(doc)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "cannot be verified")
}

func TestFingerprintOptOut(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.md")
	writeFile(t, plain, "No frontmatter here.\n")

	unfingerprinted := filepath.Join(dir, "meta.md")
	writeFile(t, unfingerprinted, "---\ntitle: Meta\n---\n\nBody.\n")

	rule := &FingerprintRule{}
	for _, doc := range []string{plain, unfingerprinted} {
		issues, err := rule.Check(doc)
		require.NoError(t, err)
		assert.Empty(t, issues)
	}
}

func TestFingerprintRuleDisabled(t *testing.T) {
	dir := t.TempDir()
	current := fingerprinted("title: Guide\n", "\nBody.\n")
	writeFile(t, filepath.Join(dir, "doc.md"), current+"\nedit\n")

	cfg := testConfig(t, dir)
	disabled := false
	cfg.Lint.Fingerprints = &disabled

	result, err := New(cfg).Run(nil)
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
}

type fakeRule struct {
	name    string
	applied []string
	issues  []Issue
}

func (f *fakeRule) Name() string          { return f.name }
func (f *fakeRule) AppliesTo(string) bool { return true }

func (f *fakeRule) Check(filePath string) ([]Issue, error) {
	f.applied = append(f.applied, filePath)
	return f.issues, nil
}

func TestWithRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "x\n")
	writeFile(t, filepath.Join(dir, "b.md"), "y\n")

	rule := &fakeRule{name: "fake", issues: []Issue{{Severity: SeverityWarning, Rule: "fake", Message: "hm"}}}
	result, err := New(testConfig(t, dir)).WithRules(rule).Run(nil)
	require.NoError(t, err)

	assert.Len(t, rule.applied, 2)
	assert.Equal(t, 2, result.WarningCount())
	assert.True(t, result.HasWarnings())
	assert.False(t, result.HasErrors())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}
