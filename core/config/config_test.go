package config_test

import (
	"testing"

	"view-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "sequential", cfg.Server.Policy)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "viewsync", cfg.Database.Name)
		assert.Equal(t, "view-sync", cfg.Storage.Bucket)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("SERVER_POLICY", "batched")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("DATABASE_HOST", "db.internal")

		cfg, err := config.LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "batched", cfg.Server.Policy)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})
}
