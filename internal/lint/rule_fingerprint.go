package lint

import (
	"fmt"
	"os"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// FingerprintRule verifies that documents declaring a content fingerprint
// in their YAML frontmatter declare a current one. Fingerprints are opt-in:
// documents without frontmatter, or whose frontmatter omits the field,
// pass.
type FingerprintRule struct{}

// Volatile frontmatter fields excluded from the hash input; they change
// without the content changing.
var fingerprintExcluded = map[string]struct{}{
	"lastmod": {},
	"uid":     {},
	"aliases": {},
}

func (r *FingerprintRule) Name() string { return "content-fingerprint" }

func (r *FingerprintRule) AppliesTo(filePath string) bool { return isMarkdown(filePath) }

func (r *FingerprintRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fm, body, ok := splitFrontmatter(string(data))
	if !ok || !declaresFingerprint(fm) {
		return nil, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(fm), &fields); err != nil {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("fingerprint cannot be verified: %v", err),
			Explanation: "The document declares a content fingerprint but its frontmatter is not valid YAML.",
			Fix:         "Repair the YAML frontmatter, then regenerate the fingerprint.",
		}}, nil
	}

	declared, isString := fields[mdfp.FingerprintField].(string)
	if !isString || strings.TrimSpace(declared) == "" {
		return nil, nil
	}

	expected, err := canonicalFingerprint(fields, body)
	if err != nil {
		return nil, fmt.Errorf("compute fingerprint: %w", err)
	}
	if expected != declared {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "content fingerprint is stale",
			Explanation: "Documents that declare a fingerprint must keep it current. An edit after fingerprinting, or a hand-written value, hides content changes from consumers.",
			Fix:         "Regenerate the fingerprint with the mdfp tooling.",
		}}, nil
	}
	return nil, nil
}

// canonicalFingerprint recomputes the fingerprint for the document. The
// fingerprint itself and the volatile fields are dropped, the remaining
// frontmatter is serialized with LF newlines and a single trailing newline
// trimmed, and frontmatter plus body are hashed together.
func canonicalFingerprint(fields map[string]any, body string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		if _, skip := fingerprintExcluded[k]; skip {
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		out, err := yaml.Marshal(forHash)
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body), nil
}

// splitFrontmatter separates the opening YAML block from the body. ok is
// false when the document does not start with a --- fence.
func splitFrontmatter(content string) (frontmatter, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", "", false
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return "", "", false
	}
	return rest[:end+1], rest[end+len("\n---\n"):], true
}

// declaresFingerprint reports whether the frontmatter block carries the
// fingerprint field.
func declaresFingerprint(fm string) bool {
	for _, line := range strings.Split(fm, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), mdfp.FingerprintField+":") {
			return true
		}
	}
	return false
}
