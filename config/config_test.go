package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "BASE_URL", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "CHROME_PATH", "GOOGLE_APPLICATION_CREDENTIALS",
		"IMAGE_CACHE_DIR", "IMAGE_ALLOWED_HOSTS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/shoes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "postgres://localhost/shoes", cfg.DatabaseURL)
	assert.Equal(t, "cache/images", cfg.ImageCacheDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ImageHosts)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_portWithColonAndDBVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "shoes")
	t.Setenv("DB_NAME", "catalog")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "host=db port=5432 user=shoes password= dbname=catalog sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_missingDatabase(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_imageAllowedHosts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/shoes")
	t.Setenv("IMAGE_ALLOWED_HOSTS", " cdn.example.com, ,images.example.com:8443 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"cdn.example.com", "images.example.com:8443"}, cfg.ImageHosts)
}
