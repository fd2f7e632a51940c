package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProviderMode says whether an external provider has credentials. It is
// decided once at load time so services never branch on empty strings.
type ProviderMode int

const (
	ModeUnconfigured ProviderMode = iota
	ModeConfigured
)

func (m ProviderMode) String() string {
	if m == ModeConfigured {
		return "configured"
	}
	return "unconfigured"
}

func modeFor(credential string) ProviderMode {
	if strings.TrimSpace(credential) == "" {
		return ModeUnconfigured
	}
	return ModeConfigured
}

type Config struct {
	Env     string
	Server  ServerConfig
	Log     LogConfig
	Posters PostersConfig
	Payment PaymentConfig
	Chat    ChatConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

type LogConfig struct {
	Path  string
	Debug bool
}

type PostersConfig struct {
	Dir string
}

type PaymentConfig struct {
	Mode          ProviderMode
	SecretKey     string
	WebhookSecret string
	Currency      string
	// MinorUnitMultiplier converts booking rupees into the provider's
	// smallest unit (paise for INR).
	MinorUnitMultiplier int64
	Timeout             time.Duration
}

type ChatConfig struct {
	Mode      ProviderMode
	APIKey    string
	Model     string
	MaxTokens int32
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "60s")
	v.SetDefault("IDLE_TIMEOUT", "120s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("POSTERS_DIR", "posters")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_CURRENCY", "inr")
	v.SetDefault("PAYMENT_MINOR_UNIT_MULTIPLIER", 100)
	v.SetDefault("PROVIDER_TIMEOUT", "30s")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("CHAT_MAX_TOKENS", 400)
	v.SetDefault("CHAT_CACHE_TTL", "10m")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_ID", "movie-booking")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

// Load reads configuration from the process environment. Call godotenv first
// if a .env file should be honoured.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

func FromViper(v *viper.Viper) *Config {
	port := v.GetString("PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	multiplier := v.GetInt64("PAYMENT_MINOR_UNIT_MULTIPLIER")
	if multiplier <= 0 {
		multiplier = 100
	}

	stripeKey := v.GetString("STRIPE_SECRET_KEY")
	geminiKey := v.GetString("GEMINI_API_KEY")
	providerTimeout := v.GetDuration("PROVIDER_TIMEOUT")

	return &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:           port,
			ReadTimeout:    v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("WRITE_TIMEOUT"),
			IdleTimeout:    v.GetDuration("IDLE_TIMEOUT"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		},
		Log: LogConfig{
			Path:  v.GetString("LOG_PATH"),
			Debug: v.GetString("ENV") != "production",
		},
		Posters: PostersConfig{
			Dir: v.GetString("POSTERS_DIR"),
		},
		Payment: PaymentConfig{
			Mode:                modeFor(stripeKey),
			SecretKey:           stripeKey,
			WebhookSecret:       v.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:            strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
			MinorUnitMultiplier: multiplier,
			Timeout:             providerTimeout,
		},
		Chat: ChatConfig{
			Mode:      modeFor(geminiKey),
			APIKey:    geminiKey,
			Model:     v.GetString("GEMINI_MODEL"),
			MaxTokens: v.GetInt32("CHAT_MAX_TOKENS"),
			Timeout:   providerTimeout,
			CacheTTL:  v.GetDuration("CHAT_CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
