package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development production test"`

	BreachAPIURL    string        `validate:"required,url"`
	BreachTimeout   time.Duration `validate:"gt=0"`
	BreachRPS       float64       `validate:"gt=0"`
	BreachBurst     int           `validate:"min=1"`
	BreachCacheSize int           `validate:"min=0"`
	BreachCacheTTL  time.Duration `validate:"gte=0"`
	BreachPadding   bool

	BatchWorkers   int   `validate:"min=1,max=64"`
	MaxUploadBytes int64 `validate:"min=1024"`
}

// Load reads configuration from the environment, falling back to defaults.
// Invalid configuration is fatal.
func Load() Config {
	cfg := Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		BreachAPIURL:    getEnv("BREACH_API_URL", "https://api.pwnedpasswords.com"),
		BreachTimeout:   getDuration("BREACH_TIMEOUT", 5*time.Second),
		BreachRPS:       getFloat("BREACH_RPS", 10),
		BreachBurst:     getInt("BREACH_BURST", 20),
		BreachCacheSize: getInt("BREACH_CACHE_SIZE", 1024),
		BreachCacheTTL:  getDuration("BREACH_CACHE_TTL", 10*time.Minute),
		BreachPadding:   getBool("BREACH_PADDING", false),

		BatchWorkers:   getInt("BATCH_WORKERS", 4),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 1<<20)),
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid boolean", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}
