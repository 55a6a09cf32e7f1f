package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type Config struct {
	Logger *slog.Logger
	// QuietPaths are route patterns whose successful requests are logged at
	// debug, e.g. health probes and metric scrapes.
	QuietPaths []string
	// UserKey is read from the echo context after the handler ran, so the
	// access line carries the authenticated caller.
	UserKey string
}

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return WithConfig(Config{Logger: base})
}

func WithConfig(cfg Config) echo.MiddlewareFunc {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	quiet := make(map[string]struct{}, len(cfg.QuietPaths))
	for _, p := range cfg.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := cfg.Logger.With(
				"method", req.Method,
				"path", c.Path(),
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if cfg.UserKey != "" {
				if uid, _ := c.Get(cfg.UserKey).(string); uid != "" {
					attrs = append(attrs, "user_id", uid)
				}
			}

			switch {
			case status >= 500:
				l.Error("request_completed", append(attrs, "error", errStr(err), "user_agent", req.UserAgent())...)
			case status >= 400:
				l.Warn("request_completed", attrs...)
			default:
				if _, ok := quiet[c.Path()]; ok {
					l.Debug("request_completed", attrs...)
					return nil
				}
				l.Info("request_completed", attrs...)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
