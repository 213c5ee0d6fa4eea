package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "econlab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Seed, cfg.Seed)
	assert.Equal(t, Default().MCMC, cfg.MCMC)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/data
seed: 7
figure:
  width: 6
mcmc:
  iterations: 500
  burn_in: 100
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 6.0, cfg.Figure.Width)
	// Unset keys keep their defaults.
	assert.Equal(t, 4.0, cfg.Figure.Height)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, MCMC{Iterations: 500, BurnIn: 100}, cfg.MCMC)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "seed: 7\n")
	t.Setenv("ECONLAB_SEED", "99")
	t.Setenv("ECONLAB_FIGURE_WIDTH", "8.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 8.5, cfg.Figure.Width)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "seed: [not a number\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "config: read")
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "figure:\n  width: -1\n"))
	assert.ErrorContains(t, err, "figure size")

	_, err = Load(writeConfig(t, "mcmc:\n  iterations: 0\n"))
	assert.ErrorContains(t, err, "iterations must be positive")

	_, err = Load(writeConfig(t, "mcmc:\n  burn_in: -5\n"))
	assert.ErrorContains(t, err, "burn-in")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
