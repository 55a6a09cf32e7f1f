package config

import (
	"errors"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/vigor_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

// Load reads .env when present, then the environment. Every missing required
// variable is reported at once.
func Load() (ServiceConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("dotenv_not_loaded", "error", err)
	}

	cfg := config.Load()
	return validate(cfg)
}

func validate(cfg config.Config) (ServiceConfig, error) {
	var errs []error
	config.MustNonEmpty(&errs, cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(&errs, cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(&errs, cfg.JWTRefreshSecret, "REFRESH_SECRET")
	config.MustNonEmpty(&errs, cfg.RazorpayKeyID, "RAZORPAY_KEY_ID")
	config.MustNonEmpty(&errs, cfg.RazorpayKeySecret, "RAZORPAY_KEY_SECRET")

	if len(cfg.JWTAccessSecret) > 0 && string(cfg.JWTAccessSecret) == string(cfg.JWTRefreshSecret) {
		errs = append(errs, errors.New("JWT_SECRET and REFRESH_SECRET must differ"))
	}
	if len(errs) > 0 {
		return ServiceConfig{}, errors.Join(errs...)
	}
	return ServiceConfig{Config: cfg}, nil
}
