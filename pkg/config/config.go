package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayAPIURL    string
	PaymentCurrency   string
	ProviderTimeout   time.Duration
	PaymentIntentTTL  time.Duration
	ReconcileInterval time.Duration

	CORSOrigins []string

	KafkaBrokers []string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	ElasticsearchURL      string
	ElasticsearchUser     string
	ElasticsearchPassword string
	ElasticsearchIndex    string

	StrictPricing bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		Env:         EnvDefault("APP_ENV", "development"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 3001),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
		JWTAccessTTL:     EnvDurationDefault("JWT_EXPIRES_IN", 15*time.Minute),
		JWTRefreshTTL:    EnvDurationDefault("REFRESH_EXPIRES_IN", 7*24*time.Hour),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayAPIURL:    os.Getenv("RAZORPAY_API_URL"),
		PaymentCurrency:   EnvDefault("PAYMENT_CURRENCY", "INR"),
		ProviderTimeout:   EnvDurationDefault("PAYMENT_PROVIDER_TIMEOUT", 10*time.Second),
		PaymentIntentTTL:  EnvDurationDefault("PAYMENT_INTENT_TTL", 30*time.Minute),
		ReconcileInterval: EnvDurationDefault("RECONCILE_INTERVAL", time.Minute),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGIN", "http://localhost:5173")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CatalogCacheTTL: EnvDurationDefault("CATALOG_CACHE_TTL", 5*time.Minute),

		ElasticsearchURL:      os.Getenv("ES_URL"),
		ElasticsearchUser:     os.Getenv("ES_USER"),
		ElasticsearchPassword: os.Getenv("ES_PASSWORD"),
		ElasticsearchIndex:    EnvDefault("ES_INDEX", "products"),

		StrictPricing: EnvBoolDefault("ORDER_STRICT_PRICING", false),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvDurationDefault accepts Go durations ("15m", "168h") and the "7d" day
// suffix used by the storefront's deployment files.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || days <= 0 {
			return def
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
