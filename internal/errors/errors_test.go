package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "exec error",
			err:      ExecError(fmt.Errorf("exit status 2"), "script failed"),
			expected: "exec (error): script failed: exit status 2",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBuildError_WithContext(t *testing.T) {
	err := New(CategoryScan, SeverityWarning, "process failed").
		WithContext("file", "index.rst").
		WithContext("pattern", "*.rst")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["file"] != "index.rst" {
		t.Errorf("Context[file] = %v, want index.rst", err.Context["file"])
	}

	if err.Context["pattern"] != "*.rst" {
		t.Errorf("Context[pattern] = %v, want *.rst", err.Context["pattern"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := ValidationError("bad break mode")
	execErr := ExecError(fmt.Errorf("exit status 1"), "run failed")
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category Category
		expected bool
	}{
		{"validation error is config", configErr, CategoryConfig, true},
		{"exec error is exec", execErr, CategoryExec, true},
		{"exec error is not config", execErr, CategoryConfig, false},
		{"standard error matches nothing", standardErr, CategoryExec, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.expected {
				t.Errorf("IsCategory() = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := WrapError(cause, CategorySphinx, "build failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if unwrapped := stdErrors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(New(CategoryState, SeverityError, "db locked")); got != CategoryState {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryState)
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryInternal)
	}
}
