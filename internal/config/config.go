package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"luckystat/internal/errors"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	Schedule ScheduleConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings.
// An empty URL selects the in-memory stores.
type DatabaseConfig struct {
	Driver string
	URL    string
}

// RedisConfig holds result cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// ServerConfig holds web server settings. RateLimit is the per-client
// requests per second allowed on the write routes; zero disables it.
type ServerConfig struct {
	Port      string
	OpsPort   string
	GinMode   string
	RateLimit float64
	RateBurst int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// ScheduleConfig controls the weekly publish job. Spec is a five-field cron
// expression evaluated in the draw time zone.
type ScheduleConfig struct {
	Enabled bool
	Spec    string
}

// DataConfig holds input files and generation switches
type DataConfig struct {
	StatsFile       string
	DrawsFile       string
	LegacyWeighting bool
	Bonus           bool
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DefaultScheduleSpec fires at the weekly boundary, Thursday 16:30
const DefaultScheduleSpec = "30 16 * * 4"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverPostgres)),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
			TTL: getEnvDurationOrDefault("RESULT_CACHE_TTL", 24*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("SERVER_PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", "9090"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),

			RateLimit: getEnvFloatOrDefault("RATE_LIMIT_RPS", 2),
			RateBurst: getEnvIntOrDefault("RATE_LIMIT_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		},
		Schedule: ScheduleConfig{
			Enabled: getEnvBoolOrDefault("SCHEDULE_ENABLED", true),
			Spec:    getEnvOrDefault("SCHEDULE_SPEC", DefaultScheduleSpec),
		},
		Data: DataConfig{
			StatsFile:       os.Getenv("STATS_FILE"),
			DrawsFile:       os.Getenv("DRAWS_FILE"),
			LegacyWeighting: getEnvBoolOrDefault("LEGACY_WEIGHTING", false),
			Bonus:           getEnvBoolOrDefault("GENERATE_BONUS", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.ConfigInvalid("unsupported DB_DRIVER " + strconv.Quote(c.Database.Driver))
	}
	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return errors.ConfigInvalid("RESULT_CACHE_TTL must be positive")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return errors.ConfigInvalid("LOG_FORMAT must be text or json")
	}
	if c.Schedule.Enabled {
		if _, err := cron.ParseStandard(c.Schedule.Spec); err != nil {
			return errors.Wrapf(errors.ConfigInvalid("invalid SCHEDULE_SPEC"), "%s: %v", c.Schedule.Spec, err)
		}
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("SERVER_PORT is required")
	}
	if c.Server.RateLimit < 0 {
		return errors.ConfigInvalid("RATE_LIMIT_RPS must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return errors.ConfigInvalid("RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}

// UsesDatabase reports whether SQL repositories are configured
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
