package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is read when no --config flag is given. A missing file at the
// default path is not an error.
const DefaultPath = "salesdash.yaml"

// Config holds the render settings. Environment variables override the file.
type Config struct {
	// DataDirs lists the dataset directories, one dashboard tab each, in display order.
	DataDirs []string `yaml:"data_dirs" env:"SALESDASH_DATA_DIRS" env-separator:"," env-default:"data/DATA1,data/DATA2,data/DATA3"`

	EURToUSD float64 `yaml:"eur_to_usd" env:"SALESDASH_EUR_TO_USD" env-default:"1.2"`
	TopN     int     `yaml:"top_n" env:"SALESDASH_TOP_N" env-default:"5"`

	OutputFormat string `yaml:"output_format" env:"SALESDASH_OUTPUT_FORMAT" env-default:"text"`

	MaxParallelRenders int `yaml:"max_parallel_renders" env:"SALESDASH_MAX_PARALLEL_RENDERS" env-default:"3"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"SALESDASH_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"SALESDASH_LOG_DEVELOPMENT" env-default:"false"`
}

// Load reads path if it exists and then applies environment overrides.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := &Config{}
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(statErr, os.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	dirs := c.DataDirs[:0]
	for _, d := range c.DataDirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	c.DataDirs = dirs
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
}

// Validate checks the fields that have no usable fallback.
func (c *Config) Validate() error {
	if len(c.DataDirs) == 0 {
		return fmt.Errorf("data_dirs must name at least one directory")
	}
	if c.EURToUSD <= 0 {
		return fmt.Errorf("eur_to_usd must be positive, got %v", c.EURToUSD)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	if c.MaxParallelRenders < 1 {
		return fmt.Errorf("max_parallel_renders must be at least 1, got %d", c.MaxParallelRenders)
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("output_format must be text or json, got %q", c.OutputFormat)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}
