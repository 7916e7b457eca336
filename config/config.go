/*
Package config loads settings for the server and the CLI.

PRECEDENCE (lowest to highest):
  1. Defaults
  2. .env file (joho/godotenv), never overriding variables already set
  3. BRIDGE_* environment variables
  4. TOML file, when a path is given
  5. Command-line flags, applied by the caller

ENVIRONMENT:
  BRIDGE_PORT           HTTP port (8080)
  BRIDGE_DB             SQLite path (bridge.db)
  BRIDGE_LOG_LEVEL      logrus level (info)
  BRIDGE_LOG_FORMAT     text | json (text)
  BRIDGE_HOLIDAYS_FILE  holiday TOML replacing the embedded dataset
  BRIDGE_CACHE_SIZE     entries per memo cache (128)
  BRIDGE_WORKERS        plan worker goroutines (4)
  BRIDGE_DAILY_RATE     value of one recovered day (250)
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port         int             `toml:"port"`
	DBPath       string          `toml:"db"`
	LogLevel     string          `toml:"log_level"`
	LogFormat    string          `toml:"log_format"`
	HolidaysFile string          `toml:"holidays_file"`
	CacheSize    int             `toml:"cache_size"`
	Workers      int             `toml:"workers"`
	DailyRate    decimal.Decimal `toml:"-"`
}

// fileConfig mirrors Config with pointers so that absent keys keep the
// lower-precedence value.
type fileConfig struct {
	Port         *int     `toml:"port"`
	DBPath       *string  `toml:"db"`
	LogLevel     *string  `toml:"log_level"`
	LogFormat    *string  `toml:"log_format"`
	HolidaysFile *string  `toml:"holidays_file"`
	CacheSize    *int     `toml:"cache_size"`
	Workers      *int     `toml:"workers"`
	DailyRate    *float64 `toml:"daily_rate"`
}

func Default() Config {
	return Config{
		Port:      8080,
		DBPath:    "bridge.db",
		LogLevel:  "info",
		LogFormat: "text",
		CacheSize: 128,
		Workers:   4,
		DailyRate: decimal.NewFromInt(250),
	}
}

// Load builds the configuration. A missing .env or TOML file is not an error;
// a malformed one is.
func Load(tomlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	cfg.applyEnv()

	if tomlPath != "" {
		if err := cfg.applyFile(tomlPath); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Port = getEnvAsInt("BRIDGE_PORT", c.Port)
	c.DBPath = getEnv("BRIDGE_DB", c.DBPath)
	c.LogLevel = getEnv("BRIDGE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("BRIDGE_LOG_FORMAT", c.LogFormat)
	c.HolidaysFile = getEnv("BRIDGE_HOLIDAYS_FILE", c.HolidaysFile)
	c.CacheSize = getEnvAsInt("BRIDGE_CACHE_SIZE", c.CacheSize)
	c.Workers = getEnvAsInt("BRIDGE_WORKERS", c.Workers)
	if v, err := decimal.NewFromString(getEnv("BRIDGE_DAILY_RATE", "")); err == nil {
		c.DailyRate = v
	}
}

func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	setIf(&c.Port, fc.Port)
	setIf(&c.DBPath, fc.DBPath)
	setIf(&c.LogLevel, fc.LogLevel)
	setIf(&c.LogFormat, fc.LogFormat)
	setIf(&c.HolidaysFile, fc.HolidaysFile)
	setIf(&c.CacheSize, fc.CacheSize)
	setIf(&c.Workers, fc.Workers)
	if fc.DailyRate != nil {
		c.DailyRate = decimal.NewFromFloat(*fc.DailyRate)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.DailyRate.IsNegative() {
		return fmt.Errorf("daily rate must not be negative, got %s", c.DailyRate)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}
