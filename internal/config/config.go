package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizlens/internal/llm"
	"github.com/abhisek/quizlens/internal/logger"
)

const (
	DefaultHistoricalURL = "https://api.jsonserve.com/XgAgFJ"
	DefaultSubmissionURL = "https://api.jsonserve.com/rJvd7g"
	DefaultThreshold     = 60.0
)

// Config holds everything a report run needs. LLM settings are resolved
// separately from the environment because they carry credentials.
type Config struct {
	HistoricalURL string        `yaml:"historical_url"`
	SubmissionURL string        `yaml:"submission_url"`
	Threshold     float64       `yaml:"threshold"`
	DBPath        string        `yaml:"db_path"`
	LogLevel      string        `yaml:"log_level"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	Addr          string        `yaml:"addr"`

	LLM llm.Config `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HistoricalURL: DefaultHistoricalURL,
		SubmissionURL: DefaultSubmissionURL,
		Threshold:     DefaultThreshold,
		LogLevel:      "INFO",
		HTTPTimeout:   15 * time.Second,
		Addr:          ":8080",
		LLM:           llm.DefaultConfig(),
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then a .env file and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg.HistoricalURL = envOr("QUIZLENS_HISTORICAL_URL", cfg.HistoricalURL)
	cfg.SubmissionURL = envOr("QUIZLENS_SUBMISSION_URL", cfg.SubmissionURL)
	cfg.Threshold = envFloatOr("QUIZLENS_THRESHOLD", cfg.Threshold)
	cfg.DBPath = envOr("QUIZLENS_DB", cfg.DBPath)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogLevel = envOr("QUIZLENS_LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPTimeout = envDurationOr("QUIZLENS_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.Addr = envOr("QUIZLENS_ADDR", cfg.Addr)
	cfg.LLM = llm.ResolveConfig()

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := validateURL("historical_url", c.HistoricalURL); err != nil {
		errs = append(errs, err)
	}
	if c.SubmissionURL != "" {
		if err := validateURL("submission_url", c.SubmissionURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		errs = append(errs, fmt.Errorf("threshold must be within 0-100, got %g", c.Threshold))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}
	return errors.Join(errs...)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Warn("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
