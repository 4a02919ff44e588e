package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// site builds a small two-page output tree with assets.
func site(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body>
<h1 id="top">Title</h1>
<a href="sub/page.html">Page</a>
<a href="sub/page.html#section">Section</a>
<a href="sub/page.html#legacy">Legacy</a>
<a href="#top">Top</a>
<a href="/style.css">Stylesheet</a>
<img src="logo.png">
<a href="https://example.com/elsewhere">External</a>
<a href="mailto:docs@example.com">Mail</a>
</body></html>`)
	writeFile(t, filepath.Join(dir, "sub", "page.html"), `<html><body>
<h2 id="section">Section</h2>
<a name="legacy"></a>
<a href="../index.html#top">Back</a>
<a href="../">Home</a>
</body></html>`)
	writeFile(t, filepath.Join(dir, "style.css"), "body {}\n")
	writeFile(t, filepath.Join(dir, "logo.png"), "png\n")
	return dir
}

func TestRunCleanSite(t *testing.T) {
	report, err := New(site(t)).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 8, report.Checked)
	assert.Empty(t, report.Problems)
	assert.Empty(t, report.External)
	assert.False(t, report.HasProblems())
}

func TestRunFindsBrokenReferences(t *testing.T) {
	dir := site(t)
	writeFile(t, filepath.Join(dir, "broken.html"), `<html><body>
<a href="missing.html">Gone</a>
<a href="#nowhere">No anchor</a>
<a href="sub/page.html#absent">Bad fragment</a>
<a href="empty/">Bare directory</a>
</body></html>`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	report, err := New(dir).Run()
	require.NoError(t, err)

	require.True(t, report.HasProblems())
	require.Len(t, report.Problems, 4)

	reasons := make([]string, 0, len(report.Problems))
	for _, p := range report.Problems {
		assert.Equal(t, "broken.html", p.Page)
		reasons = append(reasons, p.Reason)
	}
	assert.Equal(t, []string{
		"target does not exist",
		"missing anchor #nowhere",
		"missing anchor #absent",
		"directory has no index.html",
	}, reasons)
}

func TestRunListsExternalLinks(t *testing.T) {
	dir := site(t)

	report, err := New(dir).WithExternal(true).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/elsewhere"}, report.External)
	assert.False(t, report.HasProblems())
}

func TestRunMissingOutputDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-output")).Run()
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryVerify))
}

func TestParsePageCollectsAnchorsAndLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	writeFile(t, path, `<html><body>
<div id="container"><span id="inner"></span></div>
<a name="old-style"></a>
<link rel="stylesheet" href="style.css">
<script src="app.js"></script>
<video src="clip.mp4"></video>
</body></html>`)

	page, err := parsePage(path)
	require.NoError(t, err)

	assert.Contains(t, page.Anchors, "container")
	assert.Contains(t, page.Anchors, "inner")
	assert.Contains(t, page.Anchors, "old-style")

	var urls []string
	for _, l := range page.Links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{"style.css", "app.js", "clip.mp4"}, urls)
}
