package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheBackendMemory = "memory"
)

// Config application configuration
type Config struct {
	BotToken string

	AppID         int
	AppHash       string
	SessionFile   string
	SessionString string
	Phone         string
	Password      string
	MTProtoRPS    float64

	CacheBackend    string
	CacheDir        string
	CacheDBPath     string
	CacheTTL        time.Duration
	CacheMemorySize int

	RequestsDir string

	GeminiAPIKey string
	GeminiModel  string

	LogDir    string
	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:        os.Getenv("TG_BOT_TOKEN"),
		AppHash:         os.Getenv("TG_APP_HASH"),
		SessionFile:     getEnv("TG_SESSION_FILE", "data/session.json"),
		SessionString:   os.Getenv("TG_SESSION_STRING"),
		Phone:           os.Getenv("TG_PHONE"),
		Password:        os.Getenv("TG_2FA_PASSWORD"),
		MTProtoRPS:      5,
		CacheBackend:    getEnv("CACHE_BACKEND", CacheBackendFile),
		CacheDir:        getEnv("CACHE_DIR", "cache"),
		CacheDBPath:     getEnv("CACHE_DB_PATH", "data/cache.db"),
		CacheTTL:        time.Hour,
		CacheMemorySize: 256,
		RequestsDir:     getEnv("REQUESTS_DIR", "requests"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LogDir:          getEnv("LOG_DIR", "logs"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	if raw := os.Getenv("TG_APP_ID"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("TG_APP_ID is not a number: %w", err)
		}
		cfg.AppID = id
	}

	if raw := os.Getenv("MTPROTO_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("MTPROTO_RPS must be a positive number, got %q", raw)
		}
		cfg.MTProtoRPS = rps
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("CACHE_TTL is not a duration: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	if raw := os.Getenv("CACHE_MEMORY_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("CACHE_MEMORY_SIZE must be a positive integer, got %q", raw)
		}
		cfg.CacheMemorySize = size
	}

	switch cfg.CacheBackend {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendMemory:
	default:
		return nil, fmt.Errorf("CACHE_BACKEND %q is not one of file, sqlite, memory", cfg.CacheBackend)
	}

	return cfg, nil
}

// ValidateBot checks what the bot command needs
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("TG_BOT_TOKEN environment variable is empty")
	}
	return c.ValidateMTProto()
}

// ValidateMTProto checks what the user-account client needs
func (c *Config) ValidateMTProto() error {
	if c.AppID == 0 {
		return fmt.Errorf("TG_APP_ID environment variable is empty")
	}
	if c.AppHash == "" {
		return fmt.Errorf("TG_APP_HASH environment variable is empty")
	}
	return nil
}

// SummaryEnabled reports whether a Gemini key is configured
func (c *Config) SummaryEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
