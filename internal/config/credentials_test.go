package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentialsMissingFile(t *testing.T) {
	store, err := LoadCredentials(filepath.Join(t.TempDir(), "credentials.toml"))
	require.NoError(t, err)

	_, ok := store.Get("https://example.test")
	assert.False(t, ok)
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.toml")

	store, err := LoadCredentials(path)
	require.NoError(t, err)

	store.Set("https://a.example", Credentials{AccessToken: "at-a", RefreshToken: "rt-a"})
	store.Set("https://b.example", Credentials{AccessToken: "at-b", RefreshToken: "rt-b"})
	require.NoError(t, store.Save())

	reloaded, err := LoadCredentials(path)
	require.NoError(t, err)

	creds, ok := reloaded.Get("https://a.example")
	require.True(t, ok)
	assert.Equal(t, "at-a", creds.AccessToken)
	assert.Equal(t, "rt-a", creds.RefreshToken)

	reloaded.Delete("https://a.example")
	require.NoError(t, reloaded.Save())

	final, err := LoadCredentials(path)
	require.NoError(t, err)
	_, ok = final.Get("https://a.example")
	assert.False(t, ok)
	_, ok = final.Get("https://b.example")
	assert.True(t, ok)
}

func TestSaveIsOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	store, err := LoadCredentials(path)
	require.NoError(t, err)
	store.Set("https://example.test", Credentials{RefreshToken: "rt"})
	require.NoError(t, store.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
