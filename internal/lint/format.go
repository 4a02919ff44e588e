package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter writes a lint result for human or machine consumption.
type Formatter interface {
	Format(w io.Writer, result *Result, root string) error
}

// NewFormatter returns the formatter for the requested format name.
// Anything but "json" formats as text.
func NewFormatter(format string, quiet bool) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{Quiet: quiet}
}

// TextFormatter writes a human-readable report.
type TextFormatter struct {
	// Quiet drops warning and info issues from the listing.
	Quiet bool
}

// Format writes the issue listing followed by a summary block.
func (f *TextFormatter) Format(w io.Writer, result *Result, root string) error {
	if _, err := fmt.Fprintf(w, "Linting documentation in: %s\n%s\n\n", root, strings.Repeat("━", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		if f.Quiet && issue.Severity != SeverityError {
			continue
		}
		if err := f.formatIssue(w, issue); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s\nResults:\n  %d files scanned\n", strings.Repeat("━", 60), result.FilesTotal); err != nil {
		return err
	}
	if n := result.ErrorCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (blocks build)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.WarningCount(); n > 0 && !f.Quiet {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", finalMessage(result))
	return err
}

func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) error {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	default:
		icon = "ℹ"
	}
	if _, err := fmt.Fprintf(w, "%s %s\n  %s: %s [%s]\n", icon, issue.FilePath, issue.Severity, issue.Message, issue.Rule); err != nil {
		return err
	}
	if issue.Explanation != "" {
		for _, line := range strings.Split(strings.TrimSpace(issue.Explanation), "\n") {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}
	if issue.Fix != "" {
		if _, err := fmt.Fprintf(w, "  Fix: %s\n", issue.Fix); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func finalMessage(result *Result) string {
	switch {
	case result.HasErrors():
		return "✗ Documentation has errors that will block the build."
	case result.HasWarnings():
		return "⚠ Documentation has warnings. Consider fixing them before committing."
	case len(result.Issues) > 0:
		return "All issues are informational."
	default:
		return "✓ All documentation passes linting."
	}
}

// JSONFormatter writes the machine-readable report. Quiet filtering does
// not apply; consumers get the complete result.
type JSONFormatter struct{}

// JSONOutput is the document emitted by JSONFormatter.
type JSONOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue is one issue in JSONOutput.
type JSONIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// Format encodes the result as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, root string) error {
	output := JSONOutput{
		Path:         root,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
