package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/pkg/cookie"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyEmail  = "email"

	accessContextKey  = "access_claims"
	refreshContextKey = "refresh_claims"
)

type Guard struct {
	AccessSecret  []byte
	RefreshSecret []byte
}

func NewGuard(accessSecret, refreshSecret []byte) *Guard {
	return &Guard{AccessSecret: accessSecret, RefreshSecret: refreshSecret}
}

// RequireAuth accepts only a Bearer access token. Cookies are never read
// here, the refresh cookie is scoped to the auth routes.
func (g *Guard) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  accessContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return tokens.AccessClaimsFromToken(auth, g.AccessSecret)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(accessContextKey).(*tokens.AccessClaims)
			if !ok {
				return
			}
			setUserContext(c, claims.Subject, claims.Role, claims.Email)
		},
		ErrorHandler: unauthorized("access"),
	})
}

func (g *Guard) RequireRefresh() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  refreshContextKey,
		TokenLookup: "cookie:" + cookie.RefreshName,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return tokens.RefreshClaimsFromToken(auth, g.RefreshSecret)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(refreshContextKey).(*tokens.RefreshClaims)
			if !ok {
				return
			}
			setUserContext(c, claims.Subject, claims.Role, claims.Email)
		},
		ErrorHandler: unauthorized("refresh"),
	})
}

func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != role {
				logging.FromContext(c.Request().Context()).Warn("access_denied",
					"status", http.StatusForbidden,
					"reason", "role required",
					"user_id", UserID(c),
				)
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(KeyUserID).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(KeyRole).(string)
	return v
}

func Email(c echo.Context) string {
	v, _ := c.Get(KeyEmail).(string)
	return v
}

func unauthorized(kind string) func(c echo.Context, err error) error {
	return func(c echo.Context, err error) error {
		logging.FromContext(c.Request().Context()).Warn("token_rejected",
			"status", http.StatusUnauthorized,
			"token", kind,
			"reason", err.Error(),
		)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
}

func setUserContext(c echo.Context, userID, role, email string) {
	c.Set(KeyUserID, userID)
	c.Set(KeyRole, role)
	c.Set(KeyEmail, email)
}
