// Package config provides configuration structures and validation for the
// account service. It handles environment-based configuration for the HTTP
// server, persistence backends, the event producer, and the interest engine.
package config

import (
	"errors"
	"strings"
	"time"
)

// Backend names accepted by STORE_BACKEND.
const (
	StoreBackendCSV      = "csv"
	StoreBackendPostgres = "postgres"
)

// Config holds the complete application configuration. Each field represents a
// subsystem's configuration and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Engine      EngineConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StoreConfig selects the account persistence backend and bounds its calls
type StoreConfig struct {
	Backend     string        // "csv" or "postgres"
	CSVFile     string        // Path of the CSV account file
	SaveTimeout time.Duration // Upper bound on a single load/save call
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains the optional ledger archive configuration
type MongoDBConfig struct {
	Enabled         bool
	URI             string
	Database        string
	Collection      string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains the optional account event producer configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	EventTopic        string
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// EngineConfig contains interest/fee engine configuration
type EngineConfig struct {
	Period         time.Duration // Interval between runs after the first one
	WorkerPoolSize int           // Maximum concurrent per-account applications
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Store config
	switch c.Store.Backend {
	case StoreBackendCSV:
		if c.Store.CSVFile == "" {
			validationErrors = append(validationErrors, "STORE_CSV_FILE is required when STORE_BACKEND is csv")
		}
	case StoreBackendPostgres:
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required when STORE_BACKEND is postgres")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	default:
		validationErrors = append(validationErrors, "STORE_BACKEND must be csv or postgres")
	}
	if c.Store.SaveTimeout <= 0 {
		validationErrors = append(validationErrors, "STORE_SAVE_TIMEOUT must be greater than 0")
	}

	// Validate MongoDB config only when the archive is enabled
	if c.MongoDB.Enabled {
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required when MONGO_ENABLED is true")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required when MONGO_ENABLED is true")
		}
		if c.MongoDB.Collection == "" {
			validationErrors = append(validationErrors, "MONGO_COLLECTION is required when MONGO_ENABLED is true")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MinPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MaxConnIdleTime <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	// Validate Kafka config only when the producer is enabled
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.Kafka.EventTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_EVENT_TOPIC is required when KAFKA_ENABLED is true")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	// Validate Engine config
	if c.Engine.Period <= 0 {
		validationErrors = append(validationErrors, "ENGINE_PERIOD must be greater than 0")
	}
	if c.Engine.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "ENGINE_WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
