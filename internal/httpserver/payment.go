package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/transport"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent", "provider", c.Param("provider"))

	var req transport.CreateIntentRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_intent_error", err)
	}

	intent, err := h.Svc.CreateIntent(ctx, c.Param("provider"), req.OrderID, middleware.UserID(c))
	if err != nil {
		return fail(l, "create_intent_error", err)
	}
	return c.JSON(http.StatusCreated, intent)
}

func (h *PaymentHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify", "provider", c.Param("provider"))

	var req transport.VerifyRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "verify_payment_error", err)
	}
	req.Normalize()

	res, err := h.Svc.VerifyAndConfirm(ctx, c.Param("provider"), service.VerifyInput{
		ProviderOrderRef:   req.ProviderOrderRef,
		ProviderPaymentRef: req.ProviderPaymentRef,
		ProviderSignature:  req.ProviderSignature,
	})
	if err != nil {
		return fail(l, "verify_payment_error", err)
	}
	return c.JSON(http.StatusOK, res)
}
