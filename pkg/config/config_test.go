package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AWS_BUCKET", "bolsa-docs")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_WORKERS", "4")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 4, cfg.Redis.Workers)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AWS_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "AWS_BUCKET")
}

func TestValidate_MailDriver(t *testing.T) {
	cfg := &Config{
		Auth: AuthConfig{Secret: "s"},
		AWS:  AWSConfig{Bucket: "b"},
		Mail: MailConfig{Driver: "smtp"},
	}
	assert.Error(t, cfg.Validate())
}
