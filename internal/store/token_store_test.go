package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landval/internal/domain"
)

var fastKDF = kdfParams{N: 1 << 10, R: 8, P: 1}

func newFileStore(t *testing.T) *TokenFileStore {
	t.Helper()
	s := NewTokenFileStore(filepath.Join(t.TempDir(), "home"))
	s.kdf = fastKDF
	return s
}

func newSQLiteStore(t *testing.T) *TokenSQLiteStore {
	t.Helper()
	s, err := OpenTokenSQLiteStore(context.Background(), t.TempDir())
	require.NoError(t, err)
	s.kdf = fastKDF
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTokenStores_RoundTrip(t *testing.T) {
	stores := map[string]domain.TokenStore{
		"file":   newFileStore(t),
		"sqlite": newSQLiteStore(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.LoadToken()
			require.NoError(t, err)
			assert.False(t, ok, "fresh store has no token")

			require.NoError(t, s.SaveToken("tok-1"))
			got, ok, err := s.LoadToken()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok-1", got)

			require.NoError(t, s.SaveToken("tok-2"))
			got, _, err = s.LoadToken()
			require.NoError(t, err)
			assert.Equal(t, "tok-2", got)

			require.NoError(t, s.ClearToken())
			_, ok, err = s.LoadToken()
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.ClearToken(), "clearing twice is fine")
		})
	}
}

func TestTokenFileStore_EmptySaveClears(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.SaveToken("tok"))
	require.NoError(t, s.SaveToken("  "))

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestTokenFileStore_NotPlaintextAndPrivate(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.SaveToken("secret-token-value"))

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-token-value")

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenFileStore_ForeignSecretIsCorrupt(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.SaveToken("tok"))

	s.secret = "another machine"
	_, ok, err := s.LoadToken()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorruptToken)
}

func TestTokenFileStore_GarbageIsCorrupt(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, writeFile(s.Path(), []byte("not json"), 0o600))

	_, _, err := s.LoadToken()
	assert.ErrorIs(t, err, ErrCorruptToken)
}

func TestOpenTokenSQLiteStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	first, err := OpenTokenSQLiteStore(context.Background(), dir)
	require.NoError(t, err)
	first.kdf = fastKDF
	require.NoError(t, first.SaveToken("persisted"))
	require.NoError(t, first.Close())

	second, err := OpenTokenSQLiteStore(context.Background(), dir)
	require.NoError(t, err)
	defer second.Close() //nolint:errcheck

	got, ok, err := second.LoadToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", got)
}
