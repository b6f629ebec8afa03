package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/storage"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, storage.BackendJSON, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
storage:
  backend: csv
  path: /tmp/contacts.csv
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/contacts.csv", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, rdxerr.CodeConfigNotFound, rdxerr.CodeOf(err))
}

func TestLoadMissingDefaultFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, storage.BackendJSON, cfg.Storage.Backend)
}

func TestLoadHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".rolodex"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".rolodex", "config.yaml"),
		[]byte("storage:\n  backend: txt\n  path: /tmp/home.txt\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, storage.BackendTXT, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/home.txt", cfg.Storage.Path)

	// A per-directory file still wins over the home file.
	require.NoError(t, os.WriteFile(DefaultFileName,
		[]byte("storage:\n  backend: csv\n  path: /tmp/cwd.csv\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, storage.BackendCSV, cfg.Storage.Backend)
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: json
  path: /tmp/file.json
`), 0o644))

	t.Setenv(EnvBackend, "txt")
	t.Setenv(EnvPath, "/tmp/env.txt")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvTimeout, "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendTXT, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/env.txt", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Storage.TimeoutSeconds)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "bolt"
	assert.Equal(t, rdxerr.CodeConfigInvalid, rdxerr.CodeOf(cfg.Validate()))

	cfg = Default()
	cfg.Storage.Backend = storage.BackendHTTP
	cfg.Storage.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = storage.BackendHTTP
	cfg.Storage.URL = "http://localhost:9000/contacts"
	cfg.Storage.TimeoutSeconds = 7

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.BackendHTTP, opts.Backend)
	assert.Equal(t, "http://localhost:9000/contacts", opts.URL)
	assert.Equal(t, int64(7), int64(opts.Timeout.Seconds()))
}
