package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, ModeUnconfigured, cfg.Payment.Mode)
	assert.Equal(t, ModeUnconfigured, cfg.Chat.Mode)
	assert.Equal(t, "inr", cfg.Payment.Currency)
	assert.Equal(t, int64(100), cfg.Payment.MinorUnitMultiplier)
	assert.Equal(t, int32(400), cfg.Chat.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Payment.Timeout)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("PAYMENT_CURRENCY", "USD")
	t.Setenv("PAYMENT_MINOR_UNIT_MULTIPLIER", "0")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.Server.Port)
	assert.Equal(t, ModeConfigured, cfg.Payment.Mode)
	assert.Equal(t, ModeConfigured, cfg.Chat.Mode)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.Equal(t, int64(100), cfg.Payment.MinorUnitMultiplier, "non-positive multiplier falls back to 100")
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled())
}

func TestProviderModeString(t *testing.T) {
	assert.Equal(t, "configured", ModeConfigured.String())
	assert.Equal(t, "unconfigured", ModeUnconfigured.String())
	assert.Equal(t, ModeUnconfigured, modeFor("   "))
}
