package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_DRIVER", "DB_SCHEMA", "ALLOWED_ORIGINS", "PHOTO_STORE",
		"SESSION_TTL", "LOGIN_RATE_LIMIT", "LOGIN_RATE_BURST", "AWS_REGION", "S3_REGION",
		"TRUST_PROXY_HEADERS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/fitness")

	cfg := LoadFromEnv()

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "fitness", cfg.Schema)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, PhotoStoreLocal, cfg.PhotoStore)
	assert.Equal(t, 6*time.Hour, cfg.SessionTTL)
	assert.Equal(t, float64(1), cfg.LoginRateLimit)
	assert.Equal(t, 5, cfg.LoginBurst)
	assert.False(t, cfg.TrustProxyHeaders)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "fitness.db")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("PHOTO_STORE", "s3")
	t.Setenv("S3_BUCKET", "photos")
	t.Setenv("S3_REGION", "")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOGIN_RATE_LIMIT", "0")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := LoadFromEnv()

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, PhotoStoreS3, cfg.PhotoStore)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, float64(0), cfg.LoginRateLimit)
	assert.True(t, cfg.TrustProxyHeaders)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := Config{DatabaseURL: "x", Driver: DriverPostgres, PhotoStore: PhotoStoreLocal}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, ErrMissingDatabaseURL},
		{"unknown driver", func(c *Config) { c.Driver = "mysql" }, ErrInvalidDriver},
		{"s3 without bucket", func(c *Config) { c.PhotoStore = PhotoStoreS3 }, ErrMissingS3Bucket},
		{"bootstrap admin without password", func(c *Config) { c.AdminBootstrapID = "root" }, ErrBootstrapPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}
