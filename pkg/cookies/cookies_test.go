package cookies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCookieFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookup(t *testing.T) {
	path := writeCookieFile(t, `
cookie:
  - sessionId: abc
  - other: x
  - sessionId: later
`)
	store := NewFileStore(path)

	value, err := store.Lookup("sessionId")
	require.NoError(t, err)
	require.Equal(t, "abc", value)

	value, err = store.Lookup("other")
	require.NoError(t, err)
	require.Equal(t, "x", value)
}

func TestLookupNotFound(t *testing.T) {
	path := writeCookieFile(t, `
cookie:
  - sessionId: abc
`)
	_, err := NewFileStore(path).Lookup("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := store.Lookup("sessionId")
	require.Error(t, err)

	// A read failure is a harder failure than an absent key.
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "sessionId")
}

func TestLookupMalformedFile(t *testing.T) {
	path := writeCookieFile(t, `cookie: {not: [a, list`)
	_, err := NewFileStore(path).Lookup("sessionId")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestLookupEmptyFile(t *testing.T) {
	path := writeCookieFile(t, "")
	_, err := NewFileStore(path).Lookup("sessionId")
	require.ErrorIs(t, err, ErrNotFound)
}
