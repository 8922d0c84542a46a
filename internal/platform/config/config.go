// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development default; production deployments
// override via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RedisConfig captures connection tuning for the rollup cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the audit stream destination. Empty brokers disable
// streaming; the store-backed audit trail still runs.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	Redis RedisConfig
	Kafka KafkaConfig

	// RollupCacheTTL bounds staleness of cached caseload rollups. Rollups
	// are recomputed projections; the cache only smooths hot reads.
	RollupCacheTTL time.Duration

	// StrictFlagNotes requires non-empty notes on Flag. Downgrading it to
	// advisory is a product decision, so it is a config toggle.
	StrictFlagNotes bool
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("SPROUT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envDefault("KAFKA_AUDIT_TOPIC", "sprout.audit.events"),
		},
		RollupCacheTTL:  envDuration("ROLLUP_CACHE_TTL", 5*time.Minute),
		StrictFlagNotes: envDefault("STRICT_FLAG_NOTES", "true") == "true",
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
