package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruminaider/ccmate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.Config{}, cfg)
	})

	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.False(t, cfg.Verbose)
	})

	t.Run("reads yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("home: /srv/alt\nverbose: true\n"), 0644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/alt", cfg.Home)
		assert.True(t, cfg.Verbose)
		assert.False(t, cfg.Debug)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("home: /srv/alt\n"), 0644))
		t.Setenv("CCMATE_HOME", "/srv/env")
		t.Setenv("CCMATE_DEBUG", "true")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/env", cfg.Home)
		assert.True(t, cfg.Debug)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{{{"), 0644))

		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
