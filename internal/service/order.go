package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

// OrderDraft is the checkout payload as the client assembled it. It is
// treated as a value: Place copies it, never mutates it.
type OrderDraft struct {
	Items           []models.OrderItem
	Subtotal        float64
	Tax             float64
	Shipping        float64
	Total           float64
	ShippingAddress models.ShippingAddress
}

type Pricer interface {
	PriceOf(ctx context.Context, productID string) (float64, error)
}

type OrderService struct {
	Orders OrderStore
	Events events.Publisher
	// Pricer is consulted only when StrictPricing is set.
	Pricer        Pricer
	StrictPricing bool
}

func NewOrderService(orders OrderStore, pub events.Publisher) *OrderService {
	return &OrderService{Orders: orders, Events: pub}
}

func (s *OrderService) Place(ctx context.Context, draft OrderDraft, ownerID string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "unauthorized")
	}
	if err := validateDraft(draft); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid draft", "error", err)
		return nil, err
	}
	if s.StrictPricing {
		if err := s.checkPrices(ctx, draft); err != nil {
			l.Warn("create_order_error", "status", 400, "reason", "price mismatch", "error", err)
			return nil, err
		}
	}

	items := make([]models.OrderItem, len(draft.Items))
	copy(items, draft.Items)

	order := &models.Order{
		Items:           items,
		Subtotal:        draft.Subtotal,
		Tax:             draft.Tax,
		Shipping:        draft.Shipping,
		Total:           draft.Total,
		Status:          models.OrderPending,
		UserID:          owner,
		ShippingAddress: draft.ShippingAddress,
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), "order_placed", map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
		"total":   order.Total,
		"items":   len(order.Items),
	})
	l.Info("create_order_success", "order_id", order.ID, "total", order.Total)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id, requesterID string, isAdmin bool) (*models.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, apperr.New(apperr.ErrNotFound, "Order not found")
	}
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	if !isAdmin && order.UserID.String() != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "Access denied")
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, ownerID string) ([]models.Order, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "unauthorized")
	}
	return s.Orders.ListOrdersByUser(ctx, owner)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.Orders.ListOrders(ctx)
}

// SetStatus is the admin override: any valid status may follow any other.
func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	status = models.OrderStatus(strings.ToUpper(string(status)))
	if !status.Valid() {
		return nil, apperr.New(apperr.ErrBadRequest, "Invalid order status")
	}
	orderID, err := parseID(id)
	if err != nil {
		return nil, apperr.New(apperr.ErrNotFound, "Order not found")
	}

	order, err := s.Orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), "order_status_changed", map[string]any{
		"orderId": order.ID,
		"status":  order.Status,
	})
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return apperr.New(apperr.ErrNotFound, "Order not found")
	}
	if err := s.Orders.DeleteOrder(ctx, orderID); err != nil {
		return notFound(err, "Order not found")
	}
	return nil
}

func validateDraft(d OrderDraft) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", apperr.New(apperr.ErrBadRequest, "Invalid order"), fmt.Sprintf(format, args...))
	}

	if len(d.Items) == 0 {
		return bad("items required")
	}
	for i, it := range d.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return bad("item %d: productId required", i)
		}
		if it.Quantity < 1 {
			return bad("item %d: quantity must be >= 1", i)
		}
		if it.Price < 0 || math.IsNaN(it.Price) {
			return bad("item %d: price must be >= 0", i)
		}
	}
	for name, v := range map[string]float64{"subtotal": d.Subtotal, "tax": d.Tax, "shipping": d.Shipping, "total": d.Total} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return bad("%s must be a non-negative number", name)
		}
	}

	a := d.ShippingAddress
	for name, v := range map[string]string{
		"name": a.Name, "phone": a.Phone, "addressLine1": a.AddressLine1,
		"city": a.City, "state": a.State, "pincode": a.Pincode, "country": a.Country,
	} {
		if strings.TrimSpace(v) == "" {
			return bad("shippingAddress.%s required", name)
		}
	}
	return nil
}

// checkPrices reprices every line from the catalog and requires the draft's
// subtotal and total to agree with the result.
func (s *OrderService) checkPrices(ctx context.Context, d OrderDraft) error {
	if s.Pricer == nil {
		return nil
	}
	mismatch := apperr.New(apperr.ErrBadRequest, "Order totals do not match current prices")

	var subtotal float64
	for _, it := range d.Items {
		price, err := s.Pricer.PriceOf(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if !sameAmount(price, it.Price) {
			return fmt.Errorf("%w: %s priced %.2f, catalog %.2f", mismatch, it.ProductID, it.Price, price)
		}
		subtotal += price * float64(it.Quantity)
	}
	if !sameAmount(subtotal, d.Subtotal) {
		return fmt.Errorf("%w: subtotal %.2f, expected %.2f", mismatch, d.Subtotal, subtotal)
	}
	if !sameAmount(d.Subtotal+d.Tax+d.Shipping, d.Total) {
		return fmt.Errorf("%w: total %.2f != subtotal+tax+shipping", mismatch, d.Total)
	}
	return nil
}

func sameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
