package config

import (
	"os"
	"testing"
	"time"

	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{
			name:         "returns true for 'true'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "true",
			want:         true,
		},
		{
			name:         "returns true for '1'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "1",
			want:         true,
		},
		{
			name:         "returns false for 'false'",
			key:          "TEST_BOOL",
			defaultValue: true,
			envValue:     "false",
			want:         false,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_BOOL_NOT_SET",
			defaultValue: true,
			envValue:     "",
			want:         true,
		},
		{
			name:         "returns true for 'TRUE' (case insensitive)",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "TRUE",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns parsed int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "42",
			want:         42,
		},
		{
			name:         "returns default for invalid int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "invalid",
			want:         10,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOT_SET",
			defaultValue: 10,
			envValue:     "",
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{
			name:         "returns parsed duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "30s",
			want:         30 * time.Second,
		},
		{
			name:         "returns default for invalid duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "invalid",
			want:         10 * time.Second,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DURATION_NOT_SET",
			defaultValue: 10 * time.Second,
			envValue:     "",
			want:         10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSplitAndTrim tests the splitAndTrim helper function
func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single address",
			input: "http://localhost:9200",
			want:  []string{"http://localhost:9200"},
		},
		{
			name:  "multiple addresses with spaces",
			input: "http://es1:9200, http://es2:9200",
			want:  []string{"http://es1:9200", "http://es2:9200"},
		},
		{
			name:  "drops empty entries",
			input: "http://es1:9200,,",
			want:  []string{"http://es1:9200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestLoadServerConfig tests the loadServerConfig function
func TestLoadServerConfig(t *testing.T) {
	// Save current env and restore after test
	originalEnv := map[string]string{
		"LENS_HOST":             os.Getenv("LENS_HOST"),
		"LENS_PORT":             os.Getenv("LENS_PORT"),
		"LENS_READ_TIMEOUT":     os.Getenv("LENS_READ_TIMEOUT"),
		"LENS_WRITE_TIMEOUT":    os.Getenv("LENS_WRITE_TIMEOUT"),
		"LENS_IDLE_TIMEOUT":     os.Getenv("LENS_IDLE_TIMEOUT"),
		"LENS_SHUTDOWN_TIMEOUT": os.Getenv("LENS_SHUTDOWN_TIMEOUT"),
		"LENS_HEALTH_PORT":      os.Getenv("LENS_HEALTH_PORT"),
		"LENS_QUERY_TIMEOUT":    os.Getenv("LENS_QUERY_TIMEOUT"),
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	tests := []struct {
		name string
		env  map[string]string
		want ServerConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: ServerConfig{
				Host:            "0.0.0.0",
				Port:            "8080",
				ReadTimeout:     15 * time.Second,
				WriteTimeout:    15 * time.Second,
				IdleTimeout:     60 * time.Second,
				ShutdownTimeout: 30 * time.Second,
				HealthPort:      "9090",
				QueryTimeout:    10 * time.Second,
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"LENS_HOST":             "localhost",
				"LENS_PORT":             "3000",
				"LENS_READ_TIMEOUT":     "30s",
				"LENS_WRITE_TIMEOUT":    "30s",
				"LENS_IDLE_TIMEOUT":     "120s",
				"LENS_SHUTDOWN_TIMEOUT": "60s",
				"LENS_HEALTH_PORT":      "9091",
				"LENS_QUERY_TIMEOUT":    "5s",
			},
			want: ServerConfig{
				Host:            "localhost",
				Port:            "3000",
				ReadTimeout:     30 * time.Second,
				WriteTimeout:    30 * time.Second,
				IdleTimeout:     120 * time.Second,
				ShutdownTimeout: 60 * time.Second,
				HealthPort:      "9091",
				QueryTimeout:    5 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := range originalEnv {
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			got := loadServerConfig()
			if got != tt.want {
				t.Errorf("loadServerConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestLoadStorageConfig tests backend configuration loading
func TestLoadStorageConfig(t *testing.T) {
	envKeys := []string{
		"LENS_MONGO_URI", "LENS_MONGO_DATABASE", "LENS_MONGO_TIMEOUT",
		"LENS_ELASTIC_ADDRESSES", "LENS_ELASTIC_ACCESS_INDEX",
		"LENS_POSTGRES_URL", "LENS_POSTGRES_MAX_CONNS", "LENS_POSTGRES_MIN_CONNS",
		"LENS_POSTGRES_TIMEOUT", "LENS_REDIS_URL", "LENS_REDIS_PASSWORD",
		"LENS_REDIS_DB", "LENS_REDIS_MAX_RETRIES", "LENS_REDIS_POOL_SIZE",
	}
	originalEnv := map[string]string{}
	for _, k := range envKeys {
		originalEnv[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("defaults match storage.DefaultConfig", func(t *testing.T) {
		got := loadStorageConfig()
		want := storage.DefaultConfig()
		if got.MongoURI != want.MongoURI {
			t.Errorf("MongoURI = %v, want %v", got.MongoURI, want.MongoURI)
		}
		if got.MongoDatabase != want.MongoDatabase {
			t.Errorf("MongoDatabase = %v, want %v", got.MongoDatabase, want.MongoDatabase)
		}
		if got.AccessIndex != want.AccessIndex {
			t.Errorf("AccessIndex = %v, want %v", got.AccessIndex, want.AccessIndex)
		}
		if got.RedisURL != want.RedisURL {
			t.Errorf("RedisURL = %v, want %v", got.RedisURL, want.RedisURL)
		}
	})

	t.Run("overrides from environment", func(t *testing.T) {
		os.Setenv("LENS_MONGO_URI", "mongodb://mongo:27017")
		os.Setenv("LENS_MONGO_DATABASE", "metrics")
		os.Setenv("LENS_ELASTIC_ADDRESSES", "http://es1:9200,http://es2:9200")
		os.Setenv("LENS_ELASTIC_ACCESS_INDEX", "access_events")
		os.Setenv("LENS_POSTGRES_URL", "postgres://timescale:5432/metrics")
		os.Setenv("LENS_POSTGRES_MAX_CONNS", "30")
		os.Setenv("LENS_REDIS_URL", "redis://cache:6379")
		os.Setenv("LENS_REDIS_DB", "2")
		defer func() {
			for _, k := range envKeys {
				os.Unsetenv(k)
			}
		}()

		got := loadStorageConfig()
		if got.MongoURI != "mongodb://mongo:27017" {
			t.Errorf("MongoURI = %v", got.MongoURI)
		}
		if got.MongoDatabase != "metrics" {
			t.Errorf("MongoDatabase = %v", got.MongoDatabase)
		}
		if len(got.ElasticAddresses) != 2 || got.ElasticAddresses[0] != "http://es1:9200" {
			t.Errorf("ElasticAddresses = %v", got.ElasticAddresses)
		}
		if got.AccessIndex != "access_events" {
			t.Errorf("AccessIndex = %v", got.AccessIndex)
		}
		if got.PostgresURL != "postgres://timescale:5432/metrics" {
			t.Errorf("PostgresURL = %v", got.PostgresURL)
		}
		if got.PostgresMaxConns != 30 {
			t.Errorf("PostgresMaxConns = %v", got.PostgresMaxConns)
		}
		if got.RedisURL != "redis://cache:6379" {
			t.Errorf("RedisURL = %v", got.RedisURL)
		}
		if got.RedisDB != 2 {
			t.Errorf("RedisDB = %v", got.RedisDB)
		}
	})
}

// TestLoadObservabilityConfig tests observability configuration loading
func TestLoadObservabilityConfig(t *testing.T) {
	os.Unsetenv("LENS_LOG_LEVEL")
	os.Unsetenv("LENS_OTEL_ENABLED")

	got := loadObservabilityConfig()
	if got.LogLevel != observability.InfoLevel {
		t.Errorf("LogLevel = %v, want info", got.LogLevel)
	}
	if !got.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
	if got.OTelEnabled {
		t.Error("OTelEnabled = true, want false")
	}
	if got.OTelServiceName != "lens" {
		t.Errorf("OTelServiceName = %v, want lens", got.OTelServiceName)
	}
}

// TestConfigValidate tests configuration validation
func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:         "8080",
				HealthPort:   "9090",
				QueryTimeout: 10 * time.Second,
			},
			Storage:       storage.DefaultConfig(),
			Observability: ObservabilityConfig{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "server and health port collide",
			mutate:  func(c *Config) { c.Server.HealthPort = c.Server.Port },
			wantErr: true,
		},
		{
			name:    "zero query timeout",
			mutate:  func(c *Config) { c.Server.QueryTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "missing mongo URI",
			mutate:  func(c *Config) { c.Storage.MongoURI = "" },
			wantErr: true,
		},
		{
			name:    "no elasticsearch addresses",
			mutate:  func(c *Config) { c.Storage.ElasticAddresses = nil },
			wantErr: true,
		},
		{
			name:    "missing postgres URL",
			mutate:  func(c *Config) { c.Storage.PostgresURL = "" },
			wantErr: true,
		},
		{
			name:    "missing redis URL",
			mutate:  func(c *Config) { c.Storage.RedisURL = "" },
			wantErr: true,
		},
		{
			name: "otel enabled without endpoint",
			mutate: func(c *Config) {
				c.Observability.OTelEnabled = true
				c.Observability.OTelEndpoint = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
