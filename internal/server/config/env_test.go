package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("VIDEOHUB_HTTP_ADDR", ":9999")
	t.Setenv("VIDEOHUB_BLACKLIST_TTL", "30m")
	t.Setenv("VIDEOHUB_PASSWORD_HASH_COST", "4")
	t.Setenv("VIDEOHUB_S3_PUBLIC_URL", "https://cdn.example.com")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.BlacklistTTL)
	assert.Equal(t, 4, cfg.PasswordHashCost)
	assert.Equal(t, "https://cdn.example.com", cfg.S3PublicURL)
	// unset variables keep defaults
	assert.Equal(t, "accessSecret", cfg.AccessTokenSecret)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}

func Test_parseEnv_BadValuePanics(t *testing.T) {
	t.Setenv("VIDEOHUB_BLACKLIST_TTL", "tomorrow")

	cfg := &Config{}
	require.Panics(t, func() { parseEnv(cfg) })
}
