package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is read from the environment. Empty URLs select in-memory backends.
type AppConfig struct {
	RedisURL    string
	DatabaseURL string

	SnapshotTTL      time.Duration
	ArchiveSchema    bool
	RenderSquareSize int
	MessagesDir      string

	LogLevel     string
	LogToConsole bool
	LogFile      string
	LogCaller    bool
	LogFormat    string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		SnapshotTTL:      7 * 24 * time.Hour,
		RenderSquareSize: 64,
		LogLevel:         "info",
		LogToConsole:     true,
		LogFormat:        "legacy",
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))

	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_TTL_SEC")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.New("SNAPSHOT_TTL_SEC must be a non-negative integer")
		}
		// 0 keeps snapshots forever
		cfg.SnapshotTTL = time.Duration(n) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv("ARCHIVE_ENSURE_SCHEMA")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ArchiveSchema = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("RENDER_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RenderSquareSize = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_TO_CONSOLE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogToConsole = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_CALLER")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCaller = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if cfg.RedisURL != "" && !strings.HasPrefix(cfg.RedisURL, "redis://") && !strings.HasPrefix(cfg.RedisURL, "rediss://") {
		return nil, errors.New("REDIS_URL must use redis:// or rediss://")
	}

	return cfg, nil
}
