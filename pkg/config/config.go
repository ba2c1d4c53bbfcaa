package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional, enables run history and the postgres source)
	Database DatabaseConfig

	// Redis (optional, enables result cache and shared rate limits)
	Redis RedisConfig

	// Snapshot data
	Data DataConfig

	// Screening strategy YAML; empty means built-in defaults
	StrategyFile   string
	ResultCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// DataConfig describes where snapshots come from and how often they refresh
type DataConfig struct {
	Source          string        // file, http, postgres
	File            string        // path for the file source
	URL             string        // endpoint for the http source
	Format          string        // csv or html
	RefreshSchedule string        // cron spec with seconds; empty disables scheduled refresh
	RequestTimeout  time.Duration // http source timeout
	RequestsPerSec  int           // http source rate limit
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Data: DataConfig{
			Source:          getEnv("DATA_SOURCE", SourceFile),
			File:            getEnv("DATA_FILE", "data/stocks.csv"),
			URL:             getEnv("DATA_URL", ""),
			Format:          getEnv("DATA_FORMAT", "csv"),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 */6 * * *"),
			RequestTimeout:  getEnvAsDuration("DATA_REQUEST_TIMEOUT", "30s"),
			RequestsPerSec:  getEnvAsInt("DATA_REQUESTS_PER_SEC", 2),
		},

		StrategyFile:   getEnv("STRATEGY_FILE", ""),
		ResultCacheTTL: getEnvAsDuration("RESULT_CACHE_TTL", "5m"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Data.Source {
	case SourceFile:
		if c.Data.File == "" {
			return fmt.Errorf("DATA_FILE is required for the file source")
		}
	case SourceHTTP:
		if c.Data.URL == "" {
			return fmt.Errorf("DATA_URL is required for the http source")
		}
	case SourcePostgres:
		if !c.Database.Enabled() {
			return fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: file, http, postgres")
	}

	if c.Data.Format != "csv" && c.Data.Format != "html" {
		return fmt.Errorf("DATA_FORMAT must be one of: csv, html")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
