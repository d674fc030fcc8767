package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Triage   TriageConfig
	Mail     MailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TriageConfig configures the email classifier. An empty GeminiAPIKey
// switches the pipeline to the deterministic keyword fallback.
type TriageConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	TimeoutSeconds int
	RulesPath      string
}

// MailConfig carries the SMTP environment fallback used when the settings
// store has no usable row, plus the portfolio-wide PM fallback address.
type MailConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	PMFallbackEmail string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "janus-intake"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Triage: TriageConfig{
			GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
			TimeoutSeconds: getEnvAsInt("TRIAGE_TIMEOUT_SECONDS", 45),
			RulesPath:      os.Getenv("TRIAGE_RULES_PATH"),
		},
		Mail: MailConfig{
			Host:            os.Getenv("SMTP_HOST"),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Username:        os.Getenv("SMTP_USER"),
			Password:        os.Getenv("SMTP_PASS"),
			From:            os.Getenv("SMTP_FROM"),
			PMFallbackEmail: getEnv("PM_EMAIL", "pm.maple@janus.com"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the classifier call deadline.
func (t TriageConfig) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 45 * time.Second
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Configured reports whether the SMTP environment fallback is usable.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.Username != "" && m.Password != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
