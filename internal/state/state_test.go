package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestFingerprintRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	fp, err := store.Fingerprint(ctx, "docs/index.rst")
	require.NoError(t, err)
	assert.Empty(t, fp, "unknown path yields empty fingerprint")

	require.NoError(t, store.SetFingerprint(ctx, "docs/index.rst", "abc123"))
	fp, err = store.Fingerprint(ctx, "docs/index.rst")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)

	// Replacing is an upsert, not a duplicate row.
	require.NoError(t, store.SetFingerprint(ctx, "docs/index.rst", "def456"))
	fp, err = store.Fingerprint(ctx, "docs/index.rst")
	require.NoError(t, err)
	assert.Equal(t, "def456", fp)

	paths, err := store.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/index.rst"}, paths)
}

func TestForget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "a.rst", "1"))
	require.NoError(t, store.Forget(ctx, "a.rst"))

	fp, err := store.Fingerprint(ctx, "a.rst")
	require.NoError(t, err)
	assert.Empty(t, fp)

	require.NoError(t, store.Forget(ctx, "missing.rst"), "forgetting an unknown path is fine")
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"a.rst", "b.rst", "c.rst"} {
		require.NoError(t, store.SetFingerprint(ctx, p, "fp-"+p))
	}

	dropped, err := store.Prune(ctx, []string{"a.rst", "c.rst"})
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	paths, err := store.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rst", "c.rst"}, paths)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetFingerprint(context.Background(), "x.rst", "1"))
	assert.FileExists(t, dbPath)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SetFingerprint(ctx, "doc.rst", "v1"))
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	fp, err := store.Fingerprint(ctx, "doc.rst")
	require.NoError(t, err)
	assert.Equal(t, "v1", fp)
}
