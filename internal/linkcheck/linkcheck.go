// Package linkcheck verifies a built HTML site against its own files.
// Internal href and src destinations must name files that exist in the
// output directory, and fragments must name anchors the target page
// defines. External links are listed in the report but never fetched.
package linkcheck

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/docweave/docweave/internal/errors"
)

// Link is one destination extracted from a page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
}

// Page is one parsed HTML file.
type Page struct {
	Path    string // location on disk
	Rel     string // output-relative, slash form
	Anchors map[string]struct{}
	Links   []Link
}

// Problem is one broken internal reference.
type Problem struct {
	Page   string
	Link   Link
	Reason string
}

// Report aggregates a verification run.
type Report struct {
	Pages    int
	Checked  int // internal destinations verified
	External []string
	Problems []Problem
}

// HasProblems reports whether any broken reference was found.
func (r *Report) HasProblems() bool { return len(r.Problems) > 0 }

func (r *Report) flag(page *Page, link Link, reason string) {
	r.Problems = append(r.Problems, Problem{Page: page.Rel, Link: link, Reason: reason})
}

// Checker verifies the output directory of one builder.
type Checker struct {
	outdir       string
	listExternal bool
}

// New returns a Checker for the built site at outdir.
func New(outdir string) *Checker {
	return &Checker{outdir: outdir}
}

// WithExternal lists external destinations in the report.
func (c *Checker) WithExternal(list bool) *Checker {
	c.listExternal = list
	return c
}

// Run parses every HTML file under the output directory and verifies the
// internal references between them. The caller decides how to treat a
// Report with problems; the returned error covers infrastructure failures
// only.
func (c *Checker) Run() (*Report, error) {
	if _, err := os.Stat(c.outdir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryVerify,
			fmt.Sprintf("output directory does not exist: %s", c.outdir))
	}

	pages, index, err := c.loadPages()
	if err != nil {
		return nil, err
	}

	report := &Report{Pages: len(pages)}
	external := make(map[string]struct{})
	for _, page := range pages {
		for _, link := range page.Links {
			c.verifyLink(page, link, index, report, external)
		}
	}

	for dest := range external {
		report.External = append(report.External, dest)
	}
	sort.Strings(report.External)

	slog.Info("Verification complete", "pages", report.Pages,
		"checked", report.Checked, "problems", len(report.Problems))
	return report, nil
}

// loadPages parses all HTML files under the output directory. The index
// maps cleaned disk paths to their pages so fragment checks can consult the
// target's anchors.
func (c *Checker) loadPages() ([]*Page, map[string]*Page, error) {
	var pages []*Page
	index := make(map[string]*Page)

	err := filepath.WalkDir(c.outdir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		page, err := parsePage(path)
		if err != nil {
			return err
		}
		if rel, relErr := filepath.Rel(c.outdir, path); relErr == nil {
			page.Rel = filepath.ToSlash(rel)
		} else {
			page.Rel = path
		}
		pages = append(pages, page)
		index[filepath.Clean(path)] = page
		return nil
	})
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryVerify,
			fmt.Sprintf("failed to read site at %s", c.outdir))
	}
	return pages, index, nil
}

func (c *Checker) verifyLink(page *Page, link Link, index map[string]*Page, report *Report, external map[string]struct{}) {
	raw := link.URL
	if raw == "" || hasSkippedScheme(raw) {
		return
	}

	u, err := url.Parse(raw)
	if err != nil {
		report.flag(page, link, "invalid URL")
		return
	}
	if u.Scheme != "" || u.Host != "" {
		if c.listExternal {
			external[raw] = struct{}{}
		}
		return
	}

	report.Checked++

	if u.Path == "" {
		// Fragment-only reference into the same page.
		if u.Fragment != "" {
			if _, ok := page.Anchors[u.Fragment]; !ok {
				report.flag(page, link, fmt.Sprintf("missing anchor #%s", u.Fragment))
			}
		}
		return
	}

	target := c.resolve(page, u.Path)
	info, err := os.Stat(target)
	if err != nil {
		report.flag(page, link, "target does not exist")
		return
	}
	if info.IsDir() {
		target = filepath.Join(target, "index.html")
		if _, err := os.Stat(target); err != nil {
			report.flag(page, link, "directory has no index.html")
			return
		}
	}

	if u.Fragment != "" {
		if dest, ok := index[filepath.Clean(target)]; ok {
			if _, defined := dest.Anchors[u.Fragment]; !defined {
				report.flag(page, link, fmt.Sprintf("missing anchor #%s", u.Fragment))
			}
		}
	}
}

// resolve maps a URL path to the file it must name. Slash-prefixed paths
// are site-absolute.
func (c *Checker) resolve(page *Page, urlPath string) string {
	if strings.HasPrefix(urlPath, "/") {
		return filepath.Join(c.outdir, filepath.FromSlash(urlPath))
	}
	return filepath.Join(filepath.Dir(page.Path), filepath.FromSlash(urlPath))
}

// parsePage collects the anchors a page defines and the destinations it
// references.
func parsePage(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", path, err)
	}

	page := &Page{Path: path, Anchors: make(map[string]struct{})}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				page.Anchors[id] = struct{}{}
			}
			switch n.Data {
			case "a":
				// Legacy anchors still appear in generated indexes.
				if name := attr(n, "name"); name != "" {
					page.Anchors[name] = struct{}{}
				}
				if href := attr(n, "href"); href != "" {
					page.Links = append(page.Links, Link{URL: href, Tag: "a", Attribute: "href"})
				}
			case "link":
				if href := attr(n, "href"); href != "" {
					page.Links = append(page.Links, Link{URL: href, Tag: "link", Attribute: "href"})
				}
			case "img", "script", "video", "audio", "source":
				if src := attr(n, "src"); src != "" {
					page.Links = append(page.Links, Link{URL: src, Tag: n.Data, Attribute: "src"})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)
	return page, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasSkippedScheme(raw string) bool {
	return strings.HasPrefix(raw, "mailto:") ||
		strings.HasPrefix(raw, "tel:") ||
		strings.HasPrefix(raw, "javascript:") ||
		strings.HasPrefix(raw, "data:")
}
