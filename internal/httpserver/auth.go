package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/pkg/cookie"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Cookie cookie.Options
}

func (h *AuthHTTP) setRefresh(c echo.Context, pair tokens.Pair) {
	c.SetCookie(cookie.CreateCookie(cookie.RefreshName, pair.RefreshToken, h.Cookie, pair.RefreshExp))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "register_error", err)
	}

	user, pair, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	h.setRefresh(c, pair)
	return c.JSON(http.StatusCreated, transport.AuthResponse{User: user, AccessToken: pair.AccessToken})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "login_error", err)
	}

	user, pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	h.setRefresh(c, pair)
	return c.JSON(http.StatusOK, transport.AuthResponse{User: user, AccessToken: pair.AccessToken})
}

// Refresh rotates the pair. It runs behind the refresh-cookie guard.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	pair, err := h.Svc.Refresh(ctx, middleware.UserID(c))
	if err != nil {
		c.SetCookie(cookie.DeleteCookie(cookie.RefreshName, h.Cookie))
		return fail(l, "refresh_error", err)
	}

	h.setRefresh(c, pair)
	l.Info("refresh_success", "user_id", middleware.UserID(c))
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: pair.AccessToken})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	c.SetCookie(cookie.DeleteCookie(cookie.RefreshName, h.Cookie))
	l.Info("logout_success", "user_id", middleware.UserID(c))
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	user, err := h.Svc.Me(ctx, middleware.UserID(c))
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}
