// Package config reads runtime settings from the environment. Binaries use
// the values as flag defaults.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all settings.
type Config struct {
	Generator Generator
	Log       Log
	Metrics   Metrics
	Kafka     Kafka
}

// Generator configures model construction and sampling.
type Generator struct {
	DictPath  string
	VocabPath string
	Order     int
	MaxLength int
	Seed      int64 // 0 seeds from the clock
	CacheDir  string
	Workers   int
	Scheme    string // phones or letters
}

// Log configures internal/logging.
type Log struct {
	Level  string
	Format string
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string
}

// Kafka configures the name publisher.
type Kafka struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// Load reads the environment, falling back to defaults for unset or
// unparsable values.
func Load() *Config {
	return &Config{
		Generator: Generator{
			DictPath:  envOrDefault("RANDOLANG_DICT", "data/cmudict.dict"),
			VocabPath: envOrDefault("RANDOLANG_VOCAB", ""),
			Order:     envOrDefaultInt("RANDOLANG_ORDER", 2),
			MaxLength: envOrDefaultInt("RANDOLANG_MAX_LENGTH", 10),
			Seed:      envOrDefaultInt64("RANDOLANG_SEED", 0),
			CacheDir:  envOrDefault("RANDOLANG_CACHE_DIR", "data/saved_words"),
			Workers:   envOrDefaultInt("RANDOLANG_WORKERS", 4),
			Scheme:    envOrDefault("RANDOLANG_SCHEME", "phones"),
		},
		Log: Log{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "console"),
		},
		Metrics: Metrics{
			Addr: envOrDefault("METRICS_ADDR", ""),
		},
		Kafka: Kafka{
			Brokers: splitList(envOrDefault("KAFKA_BROKERS", "")),
			Topic:   envOrDefault("KAFKA_TOPIC", "randolang.names"),
			Enabled: envOrDefaultBool("KAFKA_ENABLED", false),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
