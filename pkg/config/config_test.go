package config

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Install.Jobs)
	assert.Equal(t, "brew", cfg.Homebrew.Bin)
	assert.Empty(t, cfg.Install.Manifest)
	assert.NotEmpty(t, cfg.Bootstrap.Repo)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.toml", `
[install]
jobs = 8

[homebrew]
bin = "zb"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Install.Jobs)
	assert.Equal(t, "zb", cfg.Homebrew.Bin)
	// Untouched keys keep their defaults
	assert.NotEmpty(t, cfg.Bootstrap.Repo)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.toml")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Install.Jobs)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RIG_INSTALL_JOBS", "2")
	t.Setenv("RIG_HOMEBREW_BIN", "zb")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Install.Jobs)
	assert.Equal(t, "zb", cfg.Homebrew.Bin)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.toml", "not [valid toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "[install]")
	assert.Contains(t, out, "jobs = 4")
	assert.Contains(t, out, "[homebrew]")
}
