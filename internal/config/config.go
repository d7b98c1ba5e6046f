package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Storage
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI       string `env:"MONGO_URI"`
	DBName         string `env:"DB_NAME"`
	CollectionName string `env:"COLLECTION_NAME"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"factcheck.db"`

	// LLM settings
	HFToken      string        `env:"HF_TOKEN,required"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://router.huggingface.co/v1"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"meta-llama/Meta-Llama-3-8B-Instruct"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	LLMCacheSize int           `env:"LLM_CACHE_SIZE" envDefault:"128"`

	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`

	// Auth
	JWTSecret    string `env:"JWT_SECRET,required"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"12"`

	// Throttling of analysis requests per user
	AnalysisRatePerMinute float64 `env:"ANALYSIS_RATE_PER_MINUTE" envDefault:"6"`
	AnalysisBurst         float64 `env:"ANALYSIS_BURST" envDefault:"3"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.HFToken == "" {
		errs = append(errs, errors.New("HF_TOKEN must not be empty"))
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" || c.DBName == "" || c.CollectionName == "" {
			errs = append(errs, errors.New("MONGO_URI, DB_NAME and COLLECTION_NAME are required for the mongo store"))
		}
	case DriverSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT must be positive"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	if c.LLMCacheSize < 0 {
		errs = append(errs, errors.New("LLM_CACHE_SIZE must not be negative"))
	}
	if c.AnalysisRatePerMinute < 0 || c.AnalysisBurst < 0 {
		errs = append(errs, errors.New("ANALYSIS_RATE_PER_MINUTE and ANALYSIS_BURST must not be negative"))
	} else if c.AnalysisRatePerMinute > 0 && c.AnalysisBurst < 1 {
		errs = append(errs, errors.New("ANALYSIS_BURST must be at least 1 when ANALYSIS_RATE_PER_MINUTE is set"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL onto a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
