package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings resolved from the environment
type Config struct {
	DBPath   string
	Addr     string
	LogLevel slog.Level
}

// Load reads an optional .env file from the working directory, then the
// LIFTLOG_* environment variables. Unset values fall back to defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv resolves the configuration from the process environment only
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath: DefaultDBPath(),
		Addr:   ":8080",
	}

	if v := os.Getenv("LIFTLOG_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LIFTLOG_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// DefaultDBPath is ~/.liftlog/liftlog.db
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".liftlog", "liftlog.db")
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger builds the text logger used by every command
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
