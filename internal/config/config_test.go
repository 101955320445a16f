package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "ENVIRONMENT", "BACKEND_CORS_ORIGINS", "ALLOWED_HOSTS",
		"JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "SECURITY_BCRYPT_ROUNDS", "ALLOW_SIGNUP",
		"DATABASE_URL", "PGUSER", "PGDATABASE", "OIDC_ISSUER_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, EnvDev, cfg.Server.Environment)
	assert.False(t, cfg.Server.IsProduction())
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.Server.AllowedHosts)
	assert.Equal(t, "24h", cfg.Auth.AccessTTL)
	assert.Equal(t, "168h", cfg.Auth.RefreshTTL)
	assert.Equal(t, "12", cfg.Auth.BcryptRounds)
	assert.Equal(t, "true", cfg.Auth.AllowSignup)
	assert.False(t, cfg.Postgres.Configured())
	assert.False(t, cfg.OIDC.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("BACKEND_CORS_ORIGINS", " http://a.example , ,http://b.example")
	t.Setenv("PGUSER", "worklog")
	t.Setenv("PGDATABASE", "worklog")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("OIDC_ISSUER_URL", "https://issuer.example")

	cfg := Load()

	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Postgres.Configured())
	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
	assert.True(t, cfg.OIDC.Enabled())
}
