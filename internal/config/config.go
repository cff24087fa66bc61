// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL       string        `envconfig:"FEED_API_BASE_URL"`
	AccessToken      string        `envconfig:"FEED_ACCESS_TOKEN"`
	StoragePublicURL string        `envconfig:"STORAGE_PUBLIC_URL"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabasePath     string        `envconfig:"DATABASE_PATH" default:"./data/feed.db"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	ImageOutputDir   string        `envconfig:"IMAGE_OUTPUT_DIR" default:"./data/images"`
	TelegramBotToken string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64         `envconfig:"TELEGRAM_CHAT_ID"`
	WatchInterval    time.Duration `envconfig:"WATCH_INTERVAL" default:"5m"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("WATCH_INTERVAL must be positive, got %s", cfg.WatchInterval)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return &cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TelegramEnabled reports whether both the bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}
