package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	stats, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return fail(l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_user")

	if err := h.Svc.DeleteUser(ctx, c.Param("id"), middleware.UserID(c)); err != nil {
		return fail(l, "delete_user_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User deleted"})
}
