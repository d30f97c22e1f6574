// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	RPCAddr             string
	HTTPAddr            string
	RPCWorkers          int
	HTTPShutdownTimeout time.Duration

	ModelPath     string // local file or s3://bucket/key
	ModelCacheDir string // where s3 artifacts are downloaded to
	AWSRegion     string

	LogLevel  string
	LogPretty bool

	// Kafka is optional; an empty broker disables audit events and the
	// stream ingress.
	KafkaBroker      string
	KafkaAuditTopic  string
	KafkaStreamTopic string
	KafkaGroupID     string
	StreamEnabled    bool

	GeoIPCityDB string // optional GeoLite2-City.mmdb for audit enrichment
}

// Load reads configuration from environment variables, after loading a .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	e := &env{}
	cfg := &Config{
		RPCAddr:             e.str("RPC_ADDR", ":50051"),
		HTTPAddr:            e.str("HTTP_ADDR", ":8000"),
		RPCWorkers:          e.int("RPC_WORKERS", 10),
		HTTPShutdownTimeout: e.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		ModelPath:           e.str("MODEL_PATH", "model/fraud_model.json"),
		ModelCacheDir:       e.str("MODEL_CACHE_DIR", os.TempDir()),
		AWSRegion:           e.str("AWS_REGION", ""),
		LogLevel:            e.str("LOG_LEVEL", "info"),
		LogPretty:           e.bool("LOG_PRETTY", false),
		KafkaBroker:         e.str("KAFKA_BROKER", ""),
		KafkaAuditTopic:     e.str("KAFKA_AUDIT_TOPIC", "fraud_verdicts"),
		KafkaStreamTopic:    e.str("KAFKA_STREAM_TOPIC", "raw_transactions"),
		KafkaGroupID:        e.str("KAFKA_GROUP_ID", "fraud-inference"),
		StreamEnabled:       e.bool("STREAM_ENABLED", false),
		GeoIPCityDB:         e.str("GEOIP_CITY_DB", ""),
	}
	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	if c.RPCAddr == "" {
		return fmt.Errorf("RPC_ADDR is required")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.RPCWorkers < 1 {
		return fmt.Errorf("RPC_WORKERS must be at least 1, got %d", c.RPCWorkers)
	}
	if c.HTTPShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.HTTPShutdownTimeout)
	}
	if c.StreamEnabled && c.KafkaBroker == "" {
		return fmt.Errorf("STREAM_ENABLED requires KAFKA_BROKER")
	}
	return nil
}

// KafkaEnabled reports whether a broker is configured.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaBroker != ""
}

// env reads typed variables and collects parse failures.
type env struct {
	errs []error
}

func (e *env) str(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (e *env) int(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, value))
		return fallback
	}
	return n
}

func (e *env) bool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a boolean", key, value))
		return fallback
	}
	return b
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, value))
		return fallback
	}
	return d
}
