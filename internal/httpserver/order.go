package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_order_error", err)
	}

	order, err := h.Svc.Place(ctx, service.OrderDraft{
		Items:           req.OrderItems(),
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		Shipping:        req.Shipping,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress.Model(),
	}, middleware.UserID(c))
	if err != nil {
		return fail(l, "create_order_error", err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	orders, err := h.Svc.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	isAdmin := middleware.Role(c) == models.RoleAdmin
	order, err := h.Svc.Get(ctx, c.Param("id"), middleware.UserID(c), isAdmin)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_order_status_error", err)
	}

	order, err := h.Svc.SetStatus(ctx, c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		return fail(l, "update_order_status_error", err)
	}
	l.Info("update_order_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Order deleted"})
}
