package execx

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/errors"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require a POSIX shell")
	}
}

func TestCombinedTextCapturesStdoutAndStderr(t *testing.T) {
	skipWithoutShell(t)

	out, err := Default.CombinedText(context.Background(), t.TempDir(), "echo one; echo two 1>&2", false)
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}

func TestCombinedTextWorkingDirectory(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	out, err := Default.CombinedText(context.Background(), dir, "pwd", false)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(strings.TrimSpace(out))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCombinedTextNonzeroExit(t *testing.T) {
	skipWithoutShell(t)

	out, err := Default.CombinedText(context.Background(), t.TempDir(), "echo partial; exit 3", false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryExec), "expected exec category, got %v", err)
	// Output produced before the failure is still returned alongside the error.
	assert.Contains(t, out, "partial")
}

func TestCombinedTextIgnoreStatus(t *testing.T) {
	skipWithoutShell(t)

	out, err := Default.CombinedText(context.Background(), t.TempDir(), "echo still here; exit 1", true)
	require.NoError(t, err)
	assert.Contains(t, out, "still here")
}

func TestCombinedTextStartFailureNotIgnored(t *testing.T) {
	skipWithoutShell(t)

	// A nonexistent working directory prevents the process from starting.
	// ignoreStatus only suppresses exit-status errors, not start failures.
	_, err := Default.CombinedText(context.Background(), filepath.Join(t.TempDir(), "missing"), "true", true)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryExec))
}

func TestCombinedTextContextCancellation(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Default.CombinedText(ctx, t.TempDir(), "sleep 5", false)
	require.Error(t, err)
}
