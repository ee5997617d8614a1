package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockWindow)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("AUTH_MAX_FAILED_LOGINS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	assert.Equal(t, 3, cfg.Auth.MaxFailedLogins)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			JWT: JWTConfig{
				AccessSecret:       "access-secret",
				RefreshSecret:      "refresh-secret",
				AccessTokenExpiry:  time.Hour,
				RefreshTokenExpiry: 7 * 24 * time.Hour,
			},
			Auth: AuthConfig{MaxFailedLogins: 5},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.JWT.AccessSecret = "" }},
		{"missing refresh secret", func(c *Config) { c.JWT.RefreshSecret = "" }},
		{"identical secrets", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }},
		{"zero access expiry", func(c *Config) { c.JWT.AccessTokenExpiry = 0 }},
		{"negative refresh expiry", func(c *Config) { c.JWT.RefreshTokenExpiry = -time.Hour }},
		{"zero max failed logins", func(c *Config) { c.Auth.MaxFailedLogins = 0 }},
		{"storage enabled without credentials", func(c *Config) { c.Storage.Enabled = true }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "accounts",
		Password: "pw",
		DBName:   "accountsdb",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db.internal port=5433 user=accounts password=pw dbname=accountsdb sslmode=require", db.DSN())
}
