package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv provides the two settings without defaults so LoadConfig
// can succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "movies")
	t.Setenv("DB_USER", "movie_app")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "movie-ratings", config.App.Name)
	assert.False(t, config.App.Debug)
	assert.Equal(t, "logs/", config.App.LogPath)

	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, "5432", config.Database.Port)
	assert.Equal(t, "movies", config.Database.Name)
	assert.Equal(t, "movie_app", config.Database.User)
	assert.Equal(t, int32(10), config.Database.MaxConns)

	assert.Equal(t, "postgres", config.Admin.User)
	assert.Equal(t, "postgres", config.Admin.Database)

	assert.Equal(t, 500, config.Loader.BatchSize)
	assert.Equal(t, 0.5, config.Loader.RatingMin)
	assert.Equal(t, 5.0, config.Loader.RatingMax)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DEBUG", "true")
	t.Setenv("ADMIN_USER", "root")
	t.Setenv("ADMIN_DB", "template1")
	t.Setenv("LOAD_BATCH_SIZE", "50")
	t.Setenv("RATING_MIN", "1")
	t.Setenv("RATING_MAX", "10")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", config.Database.Host)
	assert.Equal(t, "6543", config.Database.Port)
	assert.Equal(t, int32(4), config.Database.MaxConns)
	assert.True(t, config.App.Debug)
	assert.Equal(t, "root", config.Admin.User)
	assert.Equal(t, "template1", config.Admin.Database)
	assert.Equal(t, 50, config.Loader.BatchSize)
	assert.Equal(t, 1.0, config.Loader.RatingMin)
	assert.Equal(t, 10.0, config.Loader.RatingMax)
}

func TestLoadConfigRequiresDatabaseSettings(t *testing.T) {
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfigRejectsInvalidLoaderSettings(t *testing.T) {
	t.Run("inverted rating bounds", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RATING_MIN", "4")
		t.Setenv("RATING_MAX", "2")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RatingMax")
	})

	t.Run("zero batch size", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("LOAD_BATCH_SIZE", "0")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BatchSize")
	})
}
