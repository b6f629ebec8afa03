package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uche09/rolodex/internal/config"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rolodex.yaml")

	out, err := runCLI(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: json")

	// The written template must load back cleanly, or init produces a
	// config every other command chokes on.
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "json", cfg.Storage.Backend)

	// A second init refuses to clobber without --force.
	_, err = runCLI(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Equal(t, rdxerr.CodeConfigInvalid, rdxerr.CodeOf(err))
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	useTempStore(t)

	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: json")
	assert.Contains(t, out, "level: info")
}

func TestConfigShowReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rolodex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: csv\n  path: /tmp/c.csv\n"), 0o644))

	out, err := runCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: csv")
}

func TestConfigPath(t *testing.T) {
	out, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, ".rolodex.yaml")

	out, err = runCLI(t, "--config", "/tmp/custom.yaml", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/custom.yaml")
}
