package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.NotNil(t, cfg)

	// Server defaults
	assert.Equal(t, config.DefaultHost, cfg.Server.Host)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, config.DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)

	// MongoDB defaults
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "courier", cfg.MongoDB.Database)
	assert.Equal(t, config.DefaultMongoDBTimeout, cfg.MongoDB.Timeout)
	assert.Equal(t, uint64(config.DefaultMongoDBMaxPoolSize), cfg.MongoDB.MaxPoolSize)

	// Redis defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, config.DefaultRedisPoolSize, cfg.Redis.PoolSize)

	// Auth defaults
	assert.Equal(t, "dev-secret-change-in-production", cfg.Auth.JWTSecret)
	assert.Equal(t, config.DefaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, config.DefaultRefreshTokenTTL, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, config.DefaultBcryptCost, cfg.Auth.BcryptCost)

	// Rate limit defaults
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(config.DefaultRateLimitRequests), cfg.RateLimit.Requests)
	assert.Equal(t, config.DefaultRateLimitWindow, cfg.RateLimit.Window)

	// Log defaults
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		expected string
	}{
		{
			name:     "default address",
			host:     "0.0.0.0",
			port:     8080,
			expected: "0.0.0.0:8080",
		},
		{
			name:     "localhost",
			host:     "localhost",
			port:     3000,
			expected: "localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.expected, cfg.Address())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, config.DefaultConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *config.Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *config.Config) { c.Server.ReadTimeout = -time.Second },
			wantErr: "server.read_timeout",
		},
		{
			name:    "missing mongodb uri",
			mutate:  func(c *config.Config) { c.MongoDB.URI = "" },
			wantErr: "mongodb.uri",
		},
		{
			name:    "missing mongodb database",
			mutate:  func(c *config.Config) { c.MongoDB.Database = "" },
			wantErr: "mongodb.database",
		},
		{
			name:    "missing redis addr",
			mutate:  func(c *config.Config) { c.Redis.Addr = "" },
			wantErr: "redis.addr",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *config.Config) { c.Auth.JWTSecret = "" },
			wantErr: "auth.jwt_secret",
		},
		{
			name:    "refresh ttl shorter than access ttl",
			mutate:  func(c *config.Config) { c.Auth.RefreshTokenTTL = time.Minute },
			wantErr: "auth.refresh_token_ttl",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *config.Config) { c.RateLimit.Requests = 0 },
			wantErr: "rate_limit.requests",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.ErrorIs(t, err, config.ErrConfigInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_DisabledRateLimitSkipsChecks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Requests = 0
	cfg.RateLimit.Window = 0

	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9090
mongodb:
  uri: mongodb://db:27017
  database: courier_test
auth:
  jwt_secret: file-secret
  access_token_ttl: 5m
  refresh_token_ttl: 48h
log:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, "courier_test", cfg.MongoDB.Database)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFromPath_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("AUTH_JWT_SECRET", "env-secret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "10m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadFromPath_InvalidEnvValue(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	_, err := config.LoadFromPath("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestLoadFromPath_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: shout\n"), 0o600))

	_, err := config.LoadFromPath(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, cfg.IsProduction(), "dev secret is not production")
	assert.False(t, cfg.IsDevelopment())

	cfg.Auth.JWTSecret = "real-secret"
	assert.True(t, cfg.IsProduction())

	cfg.Log.Level = "debug"
	assert.True(t, cfg.IsDevelopment())
}
