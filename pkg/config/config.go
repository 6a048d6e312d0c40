package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	// Completion endpoint. Key and model have no defaults.
	CompletionAPIKey      string  `mapstructure:"COMPLETION_API_KEY" validate:"required"`
	CompletionModel       string  `mapstructure:"COMPLETION_MODEL" validate:"required"`
	CompletionEndpoint    string  `mapstructure:"COMPLETION_ENDPOINT" validate:"required,url"`
	CompletionTemperature float64 `mapstructure:"COMPLETION_TEMPERATURE" validate:"gte=0,lte=2"`
	CompletionMaxTokens   int     `mapstructure:"COMPLETION_MAX_TOKENS" validate:"gte=1"`

	StoreBackend    string `mapstructure:"STORE_BACKEND" validate:"required,oneof=memory redis postgres"`
	StoreKey        string `mapstructure:"STORE_KEY" validate:"required"`
	StoreLimit      int    `mapstructure:"STORE_LIMIT" validate:"gte=1,lte=10000"`
	StoreQuotaBytes int    `mapstructure:"STORE_QUOTA_BYTES" validate:"gte=0"`

	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"required_if=StoreBackend redis,omitempty,hostname_port"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required_if=StoreBackend postgres,omitempty,url|uri"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=1"`
	TrustProxy     bool    `mapstructure:"TRUST_PROXY"`

	AdminJWTSecret string `mapstructure:"ADMIN_JWT_SECRET"`

	GoMaxProcs int `mapstructure:"GOMAXPROCS" validate:"gte=0,lte=4096"`
}

var (
	cfg      *Config
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("COMPLETION_ENDPOINT", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("COMPLETION_TEMPERATURE", 0.8)
	v.SetDefault("COMPLETION_MAX_TOKENS", 2500)
	v.SetDefault("STORE_BACKEND", "memory")
	v.SetDefault("STORE_KEY", "project_roulette_ideas")
	v.SetDefault("STORE_LIMIT", 50)
	v.SetDefault("STORE_QUOTA_BYTES", 0)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("GOMAXPROCS", 0)

	// Optional config file
	_ = v.ReadInConfig()

	// Bind env without prefix for convenience
	keys := []string{
		"APP_ENV",
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"COMPLETION_API_KEY",
		"COMPLETION_MODEL",
		"COMPLETION_ENDPOINT",
		"COMPLETION_TEMPERATURE",
		"COMPLETION_MAX_TOKENS",
		"STORE_BACKEND",
		"STORE_KEY",
		"STORE_LIMIT",
		"STORE_QUOTA_BYTES",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"DATABASE_URL",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
		"TRUST_PROXY",
		"ADMIN_JWT_SECRET",
		"GOMAXPROCS",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Parse duration types that may come as string
	if s := v.GetString("SHUTDOWN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.GoMaxProcs > 0 {
		runtime.GOMAXPROCS(c.GoMaxProcs)
	}

	cfg = &c
	return cfg, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// Get returns the loaded configuration. Panics if not loaded.
func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call config.Load or config.MustLoad first")
	}
	return cfg
}
