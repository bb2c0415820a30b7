package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/rolodex-app/rolodex/testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "config-test-secret")
	t.Setenv("BASE_URL", "https://rolodex.example")
	t.Setenv("SMTP_HOST", "smtp.example")
	t.Setenv("SMTP_FROM", "noreply@rolodex.example")
	t.Setenv("S3_BUCKET", "rolodex-avatars")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7, cfg.BirthdayWindowDays)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownAlgorithm(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ALGORITHM", "RS256")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "algorithm")
}

func TestLoadConfigRejectsNonPositiveWindow(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BIRTHDAY_WINDOW_DAYS", "0")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
