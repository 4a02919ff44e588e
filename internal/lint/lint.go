// Package lint checks documentation sources for structural problems before
// a build: broken relative links and stale content fingerprints. Rules only
// report; nothing here rewrites files.
package lint

// Severity ranks an issue.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single problem found in a file.
type Issue struct {
	FilePath    string
	Severity    Severity
	Rule        string
	Message     string
	Explanation string
	Fix         string
}

// Rule checks one file at a time.
type Rule interface {
	// Name identifies the rule in reports.
	Name() string

	// AppliesTo reports whether the rule wants to see this file.
	AppliesTo(filePath string) bool

	// Check returns the issues found in the file.
	Check(filePath string) ([]Issue, error)
}

// Result aggregates a lint run.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors reports whether any error-level issue was found.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-level issue was found.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}
