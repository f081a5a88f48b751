package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration for the four metric backends
	Storage storage.Config

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// Upper bound for a single metrics query against any backend
	QueryTimeout time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("LENS_HOST", "0.0.0.0"),
		Port:            getEnv("LENS_PORT", "8080"),
		ReadTimeout:     getEnvDuration("LENS_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("LENS_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("LENS_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("LENS_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("LENS_HEALTH_PORT", "9090"),
		QueryTimeout:    getEnvDuration("LENS_QUERY_TIMEOUT", 10*time.Second),
	}
}

// loadStorageConfig loads backend configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	// MongoDB config (creation events)
	if mongoURI := getEnv("LENS_MONGO_URI", ""); mongoURI != "" {
		cfg.MongoURI = mongoURI
	}
	if mongoDB := getEnv("LENS_MONGO_DATABASE", ""); mongoDB != "" {
		cfg.MongoDatabase = mongoDB
	}
	if timeout := getEnvDuration("LENS_MONGO_TIMEOUT", 0); timeout > 0 {
		cfg.MongoTimeout = timeout
	}

	// Elasticsearch config (access events)
	if addrs := getEnv("LENS_ELASTIC_ADDRESSES", ""); addrs != "" {
		cfg.ElasticAddresses = splitAndTrim(addrs)
	}
	if index := getEnv("LENS_ELASTIC_ACCESS_INDEX", ""); index != "" {
		cfg.AccessIndex = index
	}

	// TimescaleDB config (movement events)
	if pgURL := getEnv("LENS_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if maxConns := getEnvInt("LENS_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("LENS_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("LENS_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	// Redis config (live usage counters)
	if redisURL := getEnv("LENS_REDIS_URL", ""); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if redisPassword := getEnv("LENS_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("LENS_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if redisMaxRetries := getEnvInt("LENS_REDIS_MAX_RETRIES", 0); redisMaxRetries > 0 {
		cfg.RedisMaxRetries = redisMaxRetries
	}
	if redisPoolSize := getEnvInt("LENS_REDIS_POOL_SIZE", 0); redisPoolSize > 0 {
		cfg.RedisPoolSize = redisPoolSize
	}

	return cfg
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("LENS_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("LENS_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("LENS_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("LENS_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("LENS_OTEL_SERVICE_NAME", "lens"),
		OTelServiceVersion: getEnv("LENS_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("LENS_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	// Validate backend config
	if c.Storage.MongoURI == "" {
		return fmt.Errorf("mongodb URI is required")
	}
	if c.Storage.MongoDatabase == "" {
		return fmt.Errorf("mongodb database is required")
	}
	if len(c.Storage.ElasticAddresses) == 0 {
		return fmt.Errorf("at least one elasticsearch address is required")
	}
	if c.Storage.AccessIndex == "" {
		return fmt.Errorf("elasticsearch access index is required")
	}
	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Storage.RedisURL == "" {
		return fmt.Errorf("redis URL is required")
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// splitAndTrim splits a comma-separated list, dropping empty entries
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
