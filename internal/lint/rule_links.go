package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docweave/docweave/internal/markdown"
)

// RelativeLinkRule verifies that link, image, and autolink destinations
// pointing into the source tree name files that exist. External
// destinations and pure fragments are not checked.
type RelativeLinkRule struct {
	// Root resolves slash-prefixed destinations. Empty skips them.
	Root string
}

func (r *RelativeLinkRule) Name() string { return "relative-links" }

func (r *RelativeLinkRule) AppliesTo(filePath string) bool { return isMarkdown(filePath) }

func (r *RelativeLinkRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	links, err := markdown.ExtractLinks(data)
	if err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}

	var issues []Issue
	for _, link := range links {
		target, ok := r.resolve(filePath, link.Destination)
		if !ok {
			continue
		}
		if _, err := os.Stat(target); err != nil {
			issues = append(issues, Issue{
				FilePath:    filePath,
				Severity:    SeverityError,
				Rule:        r.Name(),
				Message:     fmt.Sprintf("link target does not exist: %s", link.Destination),
				Explanation: "Relative links resolve against the source tree when the site is built; a missing target becomes a broken reference in the published documentation.",
				Fix:         "Correct the destination path or add the missing file.",
			})
		}
	}
	return issues, nil
}

// resolve maps a destination to the filesystem path it must name. ok is
// false for destinations the rule does not check.
func (r *RelativeLinkRule) resolve(filePath, dest string) (target string, ok bool) {
	if dest == "" || isExternal(dest) {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return "", false
	}
	if strings.HasPrefix(dest, "/") {
		if r.Root == "" {
			return "", false
		}
		return filepath.Join(r.Root, filepath.FromSlash(dest)), true
	}
	return filepath.Join(filepath.Dir(filePath), filepath.FromSlash(dest)), true
}

func isExternal(dest string) bool {
	return strings.Contains(dest, "://") ||
		strings.HasPrefix(dest, "mailto:") ||
		strings.HasPrefix(dest, "tel:") ||
		strings.HasPrefix(dest, "//")
}
