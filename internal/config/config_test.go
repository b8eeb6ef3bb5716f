package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var envVars = []string{
	"RANDOLANG_DICT", "RANDOLANG_VOCAB", "RANDOLANG_ORDER", "RANDOLANG_MAX_LENGTH",
	"RANDOLANG_SEED", "RANDOLANG_CACHE_DIR", "RANDOLANG_WORKERS", "RANDOLANG_SCHEME",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_ENABLED",
}

func clearEnv(t *testing.T) {
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "data/cmudict.dict", cfg.Generator.DictPath)
	assert.Equal(t, "", cfg.Generator.VocabPath)
	assert.Equal(t, 2, cfg.Generator.Order)
	assert.Equal(t, 10, cfg.Generator.MaxLength)
	assert.Equal(t, int64(0), cfg.Generator.Seed)
	assert.Equal(t, "data/saved_words", cfg.Generator.CacheDir)
	assert.Equal(t, 4, cfg.Generator.Workers)
	assert.Equal(t, "phones", cfg.Generator.Scheme)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "", cfg.Metrics.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "randolang.names", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadCustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANDOLANG_DICT", "/tmp/cmudict")
	t.Setenv("RANDOLANG_VOCAB", "/tmp/austen.txt")
	t.Setenv("RANDOLANG_ORDER", "3")
	t.Setenv("RANDOLANG_MAX_LENGTH", "8")
	t.Setenv("RANDOLANG_SEED", "42")
	t.Setenv("RANDOLANG_SCHEME", "letters")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "/tmp/cmudict", cfg.Generator.DictPath)
	assert.Equal(t, "/tmp/austen.txt", cfg.Generator.VocabPath)
	assert.Equal(t, 3, cfg.Generator.Order)
	assert.Equal(t, 8, cfg.Generator.MaxLength)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, "letters", cfg.Generator.Scheme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANDOLANG_ORDER", "two")
	t.Setenv("RANDOLANG_SEED", "x")
	t.Setenv("KAFKA_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 2, cfg.Generator.Order)
	assert.Equal(t, int64(0), cfg.Generator.Seed)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.envValue)
			assert.Equal(t, tt.expected, envOrDefaultBool("TEST_BOOL_VAR", tt.def))
		})
	}
}
