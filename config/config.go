package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default indicator parameters.
const (
	defaultBBandsWindow = 30
	defaultBBandsNumStd = 2.0
	defaultATRWindow    = 14
	defaultRSIWindow    = 14
	defaultMACDFast     = 12
	defaultMACDSlow     = 26
	defaultLogLevel     = "info"
)

// Config holds the default parameters the indicator engine applies when a
// request leaves them unset.
type Config struct {
	BBands struct {
		Window int     `yaml:"window"`
		NumStd float64 `yaml:"num_std"`
	} `yaml:"bbands"`
	ATR struct {
		Window int `yaml:"window"`
	} `yaml:"atr"`
	RSI struct {
		Window int `yaml:"window"`
	} `yaml:"rsi"`
	MACD struct {
		Fast int `yaml:"fast"`
		Slow int `yaml:"slow"`
	} `yaml:"macd"`
	LogLevel string `yaml:"log_level"`
}

// Default returns a config holding the standard parameters.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from an optional YAML file, then applies environment
// variable overrides, then fills anything still unset with defaults.
// An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BBands.Window = getEnvInt("TA_BBANDS_WINDOW", c.BBands.Window)
	c.BBands.NumStd = getEnvFloat("TA_BBANDS_NUM_STD", c.BBands.NumStd)
	c.ATR.Window = getEnvInt("TA_ATR_WINDOW", c.ATR.Window)
	c.RSI.Window = getEnvInt("TA_RSI_WINDOW", c.RSI.Window)
	c.MACD.Fast = getEnvInt("TA_MACD_FAST", c.MACD.Fast)
	c.MACD.Slow = getEnvInt("TA_MACD_SLOW", c.MACD.Slow)
	c.LogLevel = getEnv("TA_LOG_LEVEL", c.LogLevel)
}

func (c *Config) applyDefaults() {
	if c.BBands.Window == 0 {
		c.BBands.Window = defaultBBandsWindow
	}
	if c.BBands.NumStd == 0 {
		c.BBands.NumStd = defaultBBandsNumStd
	}
	if c.ATR.Window == 0 {
		c.ATR.Window = defaultATRWindow
	}
	if c.RSI.Window == 0 {
		c.RSI.Window = defaultRSIWindow
	}
	if c.MACD.Fast == 0 {
		c.MACD.Fast = defaultMACDFast
	}
	if c.MACD.Slow == 0 {
		c.MACD.Slow = defaultMACDSlow
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks that every parameter is usable.
func (c *Config) Validate() error {
	if c.BBands.Window < 1 {
		return fmt.Errorf("bbands.window must be >= 1, got %d", c.BBands.Window)
	}
	if !(c.BBands.NumStd > 0) {
		return fmt.Errorf("bbands.num_std must be positive, got %v", c.BBands.NumStd)
	}
	if c.ATR.Window < 1 {
		return fmt.Errorf("atr.window must be >= 1, got %d", c.ATR.Window)
	}
	if c.RSI.Window < 1 {
		return fmt.Errorf("rsi.window must be >= 1, got %d", c.RSI.Window)
	}
	if c.MACD.Fast < 1 || c.MACD.Slow < 1 {
		return fmt.Errorf("macd.fast and macd.slow must be >= 1, got %d/%d", c.MACD.Fast, c.MACD.Slow)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("[config] skipping invalid %s value: %q", key, v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		log.Printf("[config] skipping invalid %s value: %q", key, v)
		return fallback
	}
	return f
}
