package creds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.toml")

	saved := Credentials{
		Token:  "tok-abc",
		UserID: 12,
		Email:  "a@b.com",
		Name:   "Ann",
		Role:   "admin",
	}
	require.NoError(t, Save(path, saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "token file must be user-only")

	assert.Equal(t, saved, Load(path))
}

func TestLoad_MissingOrBrokenFileMeansLoggedOut(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, Credentials{}, Load(filepath.Join(dir, "absent.toml")))

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("token = [not toml"), 0o600))
	assert.Equal(t, Credentials{}, Load(broken))
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, Save(path, Credentials{Token: "t"}))
	require.NoError(t, Clear(path))
	assert.Equal(t, Credentials{}, Load(path))

	// Clearing twice is fine.
	require.NoError(t, Clear(path))
}
