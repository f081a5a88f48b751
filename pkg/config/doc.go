// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	LENS_HOST="0.0.0.0"
//	LENS_PORT="8080"
//	LENS_HEALTH_PORT="9090"
//	LENS_READ_TIMEOUT="15s"
//	LENS_WRITE_TIMEOUT="15s"
//	LENS_QUERY_TIMEOUT="10s"
//
// Backend settings:
//
//	LENS_MONGO_URI="mongodb://localhost:27017"
//	LENS_MONGO_DATABASE="data_observability"
//	LENS_ELASTIC_ADDRESSES="http://localhost:9200"
//	LENS_ELASTIC_ACCESS_INDEX="data_access"
//	LENS_POSTGRES_URL="postgres://localhost/metrics"
//	LENS_POSTGRES_MAX_CONNS="20"
//	LENS_REDIS_URL="redis://localhost:6379"
//	LENS_REDIS_POOL_SIZE="10"
//
// Observability settings:
//
//	LENS_LOG_LEVEL="info"  # debug, info, warn, error
//	LENS_METRICS_ENABLED="true"
//	LENS_OTEL_ENABLED="true"
//	LENS_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Mongo: %s\n", cfg.Storage.MongoURI)
//	fmt.Printf("Log level: %v\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/storage: Uses backend configuration
//   - pkg/observability: Uses observability configuration
package config
