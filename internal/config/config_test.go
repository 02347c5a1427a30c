package config

import (
    "bytes"
    "encoding/json"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadRateLimitConfig_ClampsValues(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head ,,")
    t.Setenv("CACHE_ENABLED", "off")

    cfg := LoadCacheConfig()
    assert.False(t, cfg.Enabled)
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
    assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestLoadQueueConfig_AMQPFallback(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")

    cfg := LoadQueueConfig()
    assert.Equal(t, "amqp://u:p@broker:5672/", cfg.URL)
    assert.Equal(t, "catalog.events", cfg.Queue)
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:1")
    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6380")

    assert.Equal(t, "redis:6380", LoadRedisConfig().Addr)
}

func TestAccessTTL(t *testing.T) {
    assert.Equal(t, 15*time.Minute, Config{AccessTTLMin: 15}.AccessTTL())
}

func TestNewLogger_Level(t *testing.T) {
    var buf bytes.Buffer
    log := newLogger(&buf, "warn")
    log.Info("hidden")
    log.Warn("shown", "k", "v")

    var rec map[string]any
    require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
    assert.Equal(t, "shown", rec["msg"])
    assert.Equal(t, "WARN", rec["level"])
}
