package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	for _, name := range []string{"TG_APP_ID", "MTPROTO_RPS", "CACHE_TTL", "CACHE_MEMORY_SIZE", "CACHE_BACKEND", "CACHE_DIR", "REQUESTS_DIR"} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendFile, cfg.CacheBackend)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, "requests", cfg.RequestsDir)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 256, cfg.CacheMemorySize)
	assert.Equal(t, 5.0, cfg.MTProtoRPS)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TG_APP_ID", "12345")
	t.Setenv("TG_APP_HASH", "hash")
	t.Setenv("CACHE_BACKEND", "sqlite")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("MTPROTO_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.AppID)
	assert.Equal(t, CacheBackendSQLite, cfg.CacheBackend)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.MTProtoRPS)
	assert.NoError(t, cfg.ValidateMTProto())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"TG_APP_ID":         "abc",
		"CACHE_TTL":         "soon",
		"MTPROTO_RPS":       "-1",
		"CACHE_MEMORY_SIZE": "0",
		"CACHE_BACKEND":     "redis",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(name, value)
			_, err := Load()
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{AppID: 1, AppHash: "h"}
	assert.ErrorContains(t, cfg.ValidateBot(), "TG_BOT_TOKEN")

	cfg.BotToken = "token"
	assert.NoError(t, cfg.ValidateBot())

	cfg.AppHash = ""
	assert.ErrorContains(t, cfg.ValidateBot(), "TG_APP_HASH")
}
