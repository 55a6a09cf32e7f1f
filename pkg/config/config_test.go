package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "JWT_EXPIRES_IN", "REFRESH_EXPIRES_IN", "PAYMENT_CURRENCY", "CORS_ORIGIN", "ORDER_STRICT_PRICING", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 3001, cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshTTL)
	assert.Equal(t, "INR", cfg.PaymentCurrency)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.StrictPricing)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestEnvDurationDefault(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty", value: "", want: time.Minute},
		{name: "go duration", value: "90s", want: 90 * time.Second},
		{name: "days", value: "7d", want: 7 * 24 * time.Hour},
		{name: "garbage", value: "soon", want: time.Minute},
		{name: "negative", value: "-5m", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, EnvDurationDefault("TEST_DURATION", time.Minute))
		})
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestMustNonEmpty_CollectsErrors(t *testing.T) {
	t.Parallel()

	var errs []error
	MustNonEmpty(&errs, "", "DATABASE_URL")
	MustNonEmpty(&errs, "set", "SERVICE_NAME")
	MustNonEmptyBytes(&errs, nil, "JWT_SECRET")

	require.Len(t, errs, 2)
	assert.Contains(t, errors.Join(errs...).Error(), "DATABASE_URL")
	assert.Contains(t, errors.Join(errs...).Error(), "JWT_SECRET")
}
