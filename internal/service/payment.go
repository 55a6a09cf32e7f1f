package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/payment"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	"github.com/Skotchmaster/vigor_shop/pkg/metrics"
)

const (
	msgOrderNotFound    = "Order not found"
	msgInvalidSignature = "Invalid payment signature"
	msgAlreadyPaid      = "Order already paid"

	reconcileBatch = 100
)

type Intent struct {
	ProviderOrderRef string    `json:"providerOrderRef"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	PublicKey        string    `json:"publicKey"`
	PaymentID        uuid.UUID `json:"paymentId"`
}

type VerifyInput struct {
	ProviderOrderRef   string `json:"providerOrderRef"`
	ProviderPaymentRef string `json:"providerPaymentRef"`
	ProviderSignature  string `json:"providerSignature"`
}

type VerifyResult struct {
	Success   bool      `json:"success"`
	PaymentID uuid.UUID `json:"paymentId"`
}

type PaymentConfig struct {
	Currency        string
	ProviderTimeout time.Duration
	IntentTTL       time.Duration
}

type PaymentService struct {
	Providers payment.Registry
	Orders    OrderStore
	Payments  PaymentStore
	Events    events.Publisher
	Config    PaymentConfig
	Now       func() time.Time
}

func NewPaymentService(providers payment.Registry, orders OrderStore, payments PaymentStore, pub events.Publisher, cfg PaymentConfig) *PaymentService {
	return &PaymentService{
		Providers: providers,
		Orders:    orders,
		Payments:  payments,
		Events:    pub,
		Config:    cfg,
		Now:       time.Now,
	}
}

func (s *PaymentService) provider(name string) (payment.Provider, error) {
	p, ok := s.Providers.Get(name)
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "Unknown payment provider")
	}
	return p, nil
}

// CreateIntent opens (or reopens) a provider order for the requester's
// PENDING order. A missing order and someone else's order look the same to
// the caller.
func (s *PaymentService) CreateIntent(ctx context.Context, providerName, orderID, requesterID string) (*Intent, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_intent", "provider", providerName)

	prov, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}

	notFoundForCaller := apperr.New(apperr.ErrBadRequest, msgOrderNotFound)
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, notFoundForCaller
	}
	order, err := s.Orders.GetOrder(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFoundForCaller
		}
		return nil, err
	}
	if order.UserID.String() != requesterID {
		l.Warn("create_intent_error", "status", 400, "reason", "order not owned by requester", "order_id", oid)
		return nil, notFoundForCaller
	}
	if order.Status != models.OrderPending {
		return nil, apperr.New(apperr.ErrBadRequest, "Order is not payable")
	}

	receipt, err := payment.NewRef("rcpt_")
	if err != nil {
		return nil, err
	}
	p, reused, err := s.Payments.ReservePayment(ctx, oid, &models.Payment{
		OrderID:  oid,
		Provider: prov.Name(),
		Receipt:  receipt,
		Amount:   order.Total,
		Currency: s.Config.Currency,
		Status:   models.PaymentPending,
	})
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotPayable) {
			return nil, apperr.New(apperr.ErrBadRequest, "Order is not payable")
		}
		return nil, err
	}

	if p.ProviderOrderRef != nil {
		metrics.PaymentIntents.WithLabelValues(prov.Name(), "reused").Inc()
		l.Info("create_intent_success", "payment_id", p.ID, "reused", reused)
		return s.intent(prov, p, *p.ProviderOrderRef), nil
	}

	ref, err := s.openProviderOrder(ctx, prov, p)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues(prov.Name(), "provider_error").Inc()
		l.Error("create_intent_error", "status", 502, "reason", "provider call failed", "payment_id", p.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", apperr.New(apperr.ErrUnavailable, "Payment provider unavailable"), err)
	}

	metrics.PaymentIntents.WithLabelValues(prov.Name(), "created").Inc()
	l.Info("create_intent_success", "payment_id", p.ID, "reused", reused)
	return s.intent(prov, p, ref), nil
}

// openProviderOrder asks the provider for an order ref under the configured
// timeout. On failure the payment row stays PENDING without a ref; the next
// intent request for the order retries, the reconciler retires it after TTL.
func (s *PaymentService) openProviderOrder(ctx context.Context, prov payment.Provider, p *models.Payment) (string, error) {
	pctx, cancel := context.WithTimeout(ctx, s.providerTimeout())
	defer cancel()

	po, err := prov.CreateOrder(pctx, payment.OrderRequest{
		Amount:   MinorUnits(p.Amount),
		Currency: p.Currency,
		Receipt:  p.Receipt,
		Notes:    map[string]string{"orderId": p.OrderID.String()},
	})
	if err != nil {
		return "", err
	}

	if err := s.Payments.SetProviderOrderRef(ctx, p.ID, po.Ref); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return "", err
		}
		// a concurrent request already stored a ref for this payment
		cur, gerr := s.Payments.GetPayment(ctx, p.ID)
		if gerr != nil {
			return "", gerr
		}
		if cur.ProviderOrderRef == nil {
			return "", fmt.Errorf("payment %s has no provider ref", p.ID)
		}
		return *cur.ProviderOrderRef, nil
	}
	return po.Ref, nil
}

func (s *PaymentService) intent(prov payment.Provider, p *models.Payment, ref string) *Intent {
	return &Intent{
		ProviderOrderRef: ref,
		Amount:           p.Amount,
		Currency:         p.Currency,
		PublicKey:        prov.PublicKey(),
		PaymentID:        p.ID,
	}
}

// VerifyAndConfirm checks the widget's completion signature and settles the
// payment. A bad signature, an unknown ref and an already failed payment all
// produce the same error.
func (s *PaymentService) VerifyAndConfirm(ctx context.Context, providerName string, in VerifyInput) (*VerifyResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.verify", "provider", providerName)

	prov, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}
	invalid := apperr.New(apperr.ErrBadRequest, msgInvalidSignature)

	if in.ProviderOrderRef == "" || in.ProviderPaymentRef == "" ||
		!payment.VerifySignature(prov.Secret(), in.ProviderOrderRef, in.ProviderPaymentRef, in.ProviderSignature) {
		metrics.PaymentVerifications.WithLabelValues(prov.Name(), "rejected").Inc()
		l.Warn("verify_payment_error", "status", 400, "reason", "signature mismatch", "provider_order_ref", in.ProviderOrderRef)
		return nil, invalid
	}

	p, err := s.Payments.FindPaymentByProviderRef(ctx, prov.Name(), in.ProviderOrderRef)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.PaymentVerifications.WithLabelValues(prov.Name(), "rejected").Inc()
			l.Warn("verify_payment_error", "status", 400, "reason", "payment not found", "provider_order_ref", in.ProviderOrderRef)
			return nil, invalid
		}
		return nil, err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	// replay of an already settled payment must not touch the row
	if p.Status == models.PaymentSuccess {
		return s.replayed(ctx, prov, p, in)
	}

	paid, outcome, err := s.Payments.ConfirmPayment(ctx, p.ID, repo.Confirmation{
		ProviderPaymentRef: in.ProviderPaymentRef,
		Signature:          in.ProviderSignature,
		Payload:            string(payload),
	})
	if err != nil {
		return nil, err
	}

	switch outcome {
	case repo.AlreadyConfirmed:
		return s.replayed(ctx, prov, paid, in)
	case repo.AlreadyFailed:
		metrics.PaymentVerifications.WithLabelValues(prov.Name(), "rejected").Inc()
		l.Warn("verify_payment_error", "status", 400, "reason", "payment already failed", "payment_id", paid.ID)
		return nil, invalid
	case repo.DuplicateForOrder:
		metrics.PaymentVerifications.WithLabelValues(prov.Name(), "duplicate").Inc()
		l.Error("verify_payment_error", "status", 409, "reason", "order already paid, refund required",
			"payment_id", paid.ID, "order_id", paid.OrderID, "provider_payment_ref", in.ProviderPaymentRef)
		publish(ctx, s.Events, events.TopicPayments, paid.ID.String(), "payment_duplicate", map[string]any{
			"paymentId":          paid.ID,
			"orderId":            paid.OrderID,
			"providerPaymentRef": in.ProviderPaymentRef,
		})
		return nil, apperr.New(apperr.ErrConflict, msgAlreadyPaid)
	}

	metrics.PaymentVerifications.WithLabelValues(prov.Name(), "confirmed").Inc()
	publish(ctx, s.Events, events.TopicPayments, paid.ID.String(), "payment_confirmed", map[string]any{
		"paymentId": paid.ID,
		"orderId":   paid.OrderID,
		"amount":    paid.Amount,
		"currency":  paid.Currency,
	})
	l.Info("verify_payment_success", "payment_id", paid.ID, "order_id", paid.OrderID)
	return &VerifyResult{Success: true, PaymentID: paid.ID}, nil
}

func (s *PaymentService) replayed(ctx context.Context, prov payment.Provider, p *models.Payment, in VerifyInput) (*VerifyResult, error) {
	// settled by the reconciler before the callback arrived
	if p.ProviderPaymentRef == "" {
		attached, err := s.Payments.AttachPaymentRef(ctx, p.ID, in.ProviderPaymentRef, in.ProviderSignature)
		if err != nil {
			return nil, err
		}
		if attached {
			metrics.PaymentVerifications.WithLabelValues(prov.Name(), "replayed").Inc()
			logging.FromContext(ctx).Info("verify_payment_success", "svc", "payment.verify",
				"reason", "capture attached to settled payment", "payment_id", p.ID, "order_id", p.OrderID)
			return &VerifyResult{Success: true, PaymentID: p.ID}, nil
		}
		if p, err = s.Payments.GetPayment(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	if p.ProviderPaymentRef != in.ProviderPaymentRef {
		metrics.PaymentVerifications.WithLabelValues(prov.Name(), "duplicate").Inc()
		logging.FromContext(ctx).Error("verify_payment_error", "svc", "payment.verify", "status", 409,
			"reason", "second capture on settled payment", "payment_id", p.ID, "provider_payment_ref", in.ProviderPaymentRef)
		return nil, apperr.New(apperr.ErrConflict, msgAlreadyPaid)
	}
	metrics.PaymentVerifications.WithLabelValues(prov.Name(), "replayed").Inc()
	return &VerifyResult{Success: true, PaymentID: p.ID}, nil
}

// Reconcile resolves PENDING payments older than the intent TTL by asking
// the provider. Paid provider orders are confirmed, everything else fails.
// Payments whose provider call errors are left for the next pass.
func (s *PaymentService) Reconcile(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "payment.reconcile")

	stale, err := s.Payments.ListStalePayments(ctx, s.Now().UTC().Add(-s.Config.IntentTTL), reconcileBatch)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i := range stale {
		p := &stale[i]
		prov, ok := s.Providers.Get(p.Provider)
		if !ok {
			l.Warn("reconcile_skip", "reason", "unknown provider", "payment_id", p.ID)
			continue
		}

		if p.ProviderOrderRef == nil {
			if ok, err := s.Payments.MarkPaymentFailed(ctx, p.ID, `{"source":"reconcile","reason":"no provider order"}`); err != nil {
				return resolved, err
			} else if ok {
				resolved++
				metrics.ReconciledPayments.WithLabelValues(string(models.PaymentFailed)).Inc()
			}
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, s.providerTimeout())
		po, err := prov.FetchOrder(pctx, *p.ProviderOrderRef)
		cancel()
		if err != nil {
			l.Warn("reconcile_fetch_error", "payment_id", p.ID, "error", err)
			continue
		}

		payload := fmt.Sprintf(`{"source":"reconcile","providerStatus":%q}`, po.Status)
		if po.Status == payment.StatusPaid {
			paid, outcome, err := s.Payments.ConfirmPayment(ctx, p.ID, repo.Confirmation{Payload: payload})
			if err != nil {
				return resolved, err
			}
			if outcome == repo.Confirmed {
				publish(ctx, s.Events, events.TopicPayments, paid.ID.String(), "payment_confirmed", map[string]any{
					"paymentId": paid.ID,
					"orderId":   paid.OrderID,
					"amount":    paid.Amount,
					"currency":  paid.Currency,
					"source":    "reconcile",
				})
			}
			resolved++
			metrics.ReconciledPayments.WithLabelValues(string(paid.Status)).Inc()
			l.Info("reconcile_resolved", "payment_id", p.ID, "status", paid.Status)
			continue
		}

		ok, err = s.Payments.MarkPaymentFailed(ctx, p.ID, payload)
		if err != nil {
			return resolved, err
		}
		if ok {
			resolved++
			metrics.ReconciledPayments.WithLabelValues(string(models.PaymentFailed)).Inc()
			l.Info("reconcile_resolved", "payment_id", p.ID, "status", models.PaymentFailed)
		}
	}
	return resolved, nil
}

func (s *PaymentService) providerTimeout() time.Duration {
	if s.Config.ProviderTimeout <= 0 {
		return 10 * time.Second
	}
	return s.Config.ProviderTimeout
}

// MinorUnits converts a rupee amount to paise.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
