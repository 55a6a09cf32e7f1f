package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/vigor_shop/internal/models"
)

type ConfirmOutcome int

const (
	Confirmed ConfirmOutcome = iota
	AlreadyConfirmed
	AlreadyFailed
	DuplicateForOrder
)

type Confirmation struct {
	ProviderPaymentRef string
	Signature          string
	Payload            string
}

// ReservePayment returns the order's open PENDING payment, or inserts p when
// there is none. The order row is locked for the duration so concurrent
// intents for one order end up on one payment.
func (r *GormRepo) ReservePayment(ctx context.Context, orderID uuid.UUID, p *models.Payment) (*models.Payment, bool, error) {
	var out models.Payment
	reused := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if order.Status != models.OrderPending {
			return ErrOrderNotPayable
		}

		err := tx.Where("order_id = ? AND provider = ? AND status = ?", orderID, p.Provider, models.PaymentPending).
			Order("created_at DESC").
			First(&out).Error
		if err == nil {
			reused = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, reused, nil
}

func (r *GormRepo) SetProviderOrderRef(ctx context.Context, paymentID uuid.UUID, ref string) error {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND provider_order_ref IS NULL", paymentID).
		Update("provider_order_ref", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) FindPaymentByProviderRef(ctx context.Context, provider, ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).
		Where("provider = ? AND provider_order_ref = ?", provider, ref).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ConfirmPayment settles a PENDING payment. In one transaction the payment
// becomes SUCCESS and its order moves PENDING to PROCESSING; an order in any
// other state is left alone. A second SUCCESS for the same order is refused
// and the late payment is marked FAILED instead.
func (r *GormRepo) ConfirmPayment(ctx context.Context, paymentID uuid.UUID, c Confirmation) (*models.Payment, ConfirmOutcome, error) {
	var p models.Payment
	outcome := Confirmed

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", paymentID).First(&p).Error; err != nil {
			return err
		}

		// the order lock serializes confirmations of different payments for one order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", p.OrderID).First(&models.Order{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", paymentID).First(&p).Error; err != nil {
			return err
		}

		switch p.Status {
		case models.PaymentSuccess:
			outcome = AlreadyConfirmed
			return nil
		case models.PaymentFailed:
			outcome = AlreadyFailed
			return nil
		}

		var paid int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status = ? AND id <> ?", p.OrderID, models.PaymentSuccess, p.ID).
			Count(&paid).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"provider_payment_ref": c.ProviderPaymentRef,
			"provider_signature":   c.Signature,
			"payload":              c.Payload,
		}
		if paid > 0 {
			outcome = DuplicateForOrder
			updates["status"] = models.PaymentFailed
		} else {
			updates["status"] = models.PaymentSuccess
		}

		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
			return err
		}
		if outcome != DuplicateForOrder {
			if err := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", p.OrderID, models.OrderPending).
				Update("status", models.OrderProcessing).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", paymentID).First(&p).Error
	})
	if err != nil {
		return nil, outcome, err
	}
	return &p, outcome, nil
}

// AttachPaymentRef records the provider capture on a SUCCESS payment that
// was settled without one, as the reconciler does. It reports false when the
// row already carries a capture ref.
func (r *GormRepo) AttachPaymentRef(ctx context.Context, id uuid.UUID, ref, signature string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ? AND provider_payment_ref = ?", id, models.PaymentSuccess, "").
		Updates(map[string]any{"provider_payment_ref": ref, "provider_signature": signature})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID, payload string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentPending).
		Updates(map[string]any{"status": models.PaymentFailed, "payload": payload})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) ListStalePayments(ctx context.Context, before time.Time, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PaymentPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
