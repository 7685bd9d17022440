package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.ListTTL.Duration())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL.Duration())
	assert.Equal(t, "keyword", cfg.Classifier.Provider)
	assert.Equal(t, 1, cfg.Classifier.MaxRetries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("PG_DSN", "postgres://u:p@db:5432/inputs")
	t.Setenv("REDIS_URL", "redis://:pw@cache:6379/3")
	t.Setenv("HTTP_READ_TIMEOUT", "15")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://dash.example.com")
	t.Setenv("CLASSIFIER_PROVIDER", " OpenAI ")
	t.Setenv("LLM_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, []string{"http://localhost:5173", "https://dash.example.com"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, "openai", cfg.Classifier.Provider)
	assert.Equal(t, 3*time.Second, cfg.Classifier.Timeout.Duration())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "PG_DSN")
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_DRIVER")
	})
	t.Run("bad redis url", func(t *testing.T) {
		t.Setenv("REDIS_URL", "http://cache")
		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_URL")
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "forever")
		_, err := Load()
		assert.Error(t, err)
	})
}
