package credential_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-go/credential"
)

const testOrigin = "https://api.devlink.test"

func TestFileStore(t *testing.T) {
	newStore := func(t *testing.T) *credential.FileStore {
		t.Helper()
		store, err := credential.NewFileStore(t.TempDir(), testOrigin)
		require.NoError(t, err)
		return store
	}

	t.Run("load on empty store reports absent", func(t *testing.T) {
		store := newStore(t)
		_, ok, err := store.Load()
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("save then load round-trips", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save("abc.def.ghi"))

		cred, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
	})

	t.Run("save overwrites prior value", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save("first.token.sig"))
		require.NoError(t, store.Save("second.token.sig"))

		cred, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, credential.Credential("second.token.sig"), cred)
	})

	t.Run("clear removes the credential and is idempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save("abc.def.ghi"))

		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, ok, err := store.Load()
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("persists across store instances", func(t *testing.T) {
		dir := t.TempDir()
		first, err := credential.NewFileStore(dir, testOrigin)
		require.NoError(t, err)
		require.NoError(t, first.Save("abc.def.ghi"))

		second, err := credential.NewFileStore(dir, testOrigin)
		require.NoError(t, err)
		cred, ok, err := second.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, credential.Credential("abc.def.ghi"), cred)
	})

	t.Run("different origins use different slots", func(t *testing.T) {
		dir := t.TempDir()
		one, err := credential.NewFileStore(dir, "https://one.devlink.test")
		require.NoError(t, err)
		two, err := credential.NewFileStore(dir, "https://two.devlink.test")
		require.NoError(t, err)

		require.NoError(t, one.Save("one.token.sig"))
		_, ok, err := two.Load()
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("corrupt file is treated as absent", func(t *testing.T) {
		dir := t.TempDir()
		store, err := credential.NewFileStore(dir, testOrigin)
		require.NoError(t, err)
		require.NoError(t, store.Save("abc.def.ghi"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{not json"), 0o600))

		_, ok, err := store.Load()
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	store := credential.NewMemoryStore()

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save("abc.def.ghi"))
	cred, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, credential.Credential("abc.def.ghi"), cred)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, ok, err = store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}
