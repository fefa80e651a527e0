package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "STOXWATCH_CONFIG"
	defaultTimezone = "UTC"
)

var defaultPopularSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "ORCL", "CRM",
	"ADBE", "INTC", "AMD", "PYPL", "UBER",
}

// Config holds every setting the binaries read at startup.
type Config struct {
	Port        string
	FrontendURL string
	AppBaseURL  string
	LogLevel    string

	DatabaseURL   string
	RedisURL      string
	MongoURI      string
	MongoDatabase string

	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	MassiveAPIKey      string
	NewsFetchTimeout   time.Duration

	LLMProvider         string
	LLMFallbackProvider string
	GeminiAPIKey        string
	GeminiModel         string
	OpenAIAPIKey        string
	AnthropicAPIKey     string
	LLMMaxAttempts      int
	LLMTimeout          time.Duration

	SMTPAddr     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	JWTSecret        string
	JWTExpiry        time.Duration
	JobsTriggerToken string

	Scheduler      SchedulerConfig
	PopularSymbols []string
}

// SchedulerConfig overrides job schedules by job name.
type SchedulerConfig struct {
	Timezone string            `yaml:"timezone"`
	Jobs     map[string]string `yaml:"jobs"`
	location *time.Location
}

func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

type fileConfig struct {
	Scheduler      SchedulerConfig `yaml:"scheduler"`
	PopularSymbols []string        `yaml:"popularSymbols"`
}

// Load reads .env, the optional YAML file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		AppBaseURL:  getEnvOrDefault("APP_BASE_URL", "http://localhost:3000"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "stoxwatch"),

		FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		MassiveAPIKey:      os.Getenv("MASSIVE_API_KEY"),
		NewsFetchTimeout:   getEnvOrDefaultDuration("NEWS_FETCH_TIMEOUT", 10*time.Second),

		LLMProvider:         getEnvOrDefault("LLM_PROVIDER", "gemini"),
		LLMFallbackProvider: os.Getenv("LLM_FALLBACK_PROVIDER"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		LLMMaxAttempts:      getEnvOrDefaultInt("LLM_MAX_ATTEMPTS", 2),
		LLMTimeout:          getEnvOrDefaultDuration("LLM_TIMEOUT", 30*time.Second),

		SMTPAddr:     getEnvOrDefault("SMTP_ADDR", "smtp.gmail.com:587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "StoxWatch <no-reply@stoxwatch.ai>"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiry:        getEnvOrDefaultDuration("JWT_EXPIRY", 7*24*time.Hour),
		JobsTriggerToken: os.Getenv("JOBS_TRIGGER_TOKEN"),

		Scheduler:      SchedulerConfig{Timezone: defaultTimezone, Jobs: map[string]string{}},
		PopularSymbols: defaultPopularSymbols,
	}

	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if tz := os.Getenv("SCHEDULER_TIMEZONE"); tz != "" {
		cfg.Scheduler.Timezone = tz
	}
	if err := cfg.bindTimezone(); err != nil {
		return nil, err
	}

	if cfg.LLMMaxAttempts < 1 {
		return nil, &ConfigError{Field: "LLM_MAX_ATTEMPTS", Message: "must be at least 1"}
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: configPathEnv, Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return &ConfigError{Field: configPathEnv, Message: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}

	if fc.Scheduler.Timezone != "" {
		c.Scheduler.Timezone = fc.Scheduler.Timezone
	}
	for name, spec := range fc.Scheduler.Jobs {
		c.Scheduler.Jobs[name] = spec
	}
	if symbols := cleanSymbols(fc.PopularSymbols); len(symbols) > 0 {
		c.PopularSymbols = symbols
	}

	return nil
}

func (c *Config) bindTimezone() error {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return &ConfigError{Field: "SCHEDULER_TIMEZONE", Message: fmt.Sprintf("unknown timezone %q", c.Scheduler.Timezone)}
	}
	c.Scheduler.location = loc
	return nil
}

// Require returns a ConfigError naming the first key without a value.
func (c *Config) Require(keys ...string) error {
	values := map[string]string{
		"DATABASE_URL":       c.DatabaseURL,
		"REDIS_URL":          c.RedisURL,
		"MONGO_URI":          c.MongoURI,
		"FINNHUB_API_KEY":    c.FinnhubAPIKey,
		"GEMINI_API_KEY":     c.GeminiAPIKey,
		"OPENAI_API_KEY":     c.OpenAIAPIKey,
		"ANTHROPIC_API_KEY":  c.AnthropicAPIKey,
		"SMTP_USERNAME":      c.SMTPUsername,
		"SMTP_PASSWORD":      c.SMTPPassword,
		"JWT_SECRET":         c.JWTSecret,
		"JOBS_TRIGGER_TOKEN": c.JobsTriggerToken,
	}

	for _, key := range keys {
		value, known := values[key]
		if !known {
			return &ConfigError{Field: key, Message: "unknown configuration key"}
		}
		if strings.TrimSpace(value) == "" {
			return &ConfigError{Field: key, Message: "is required"}
		}
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func cleanSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
