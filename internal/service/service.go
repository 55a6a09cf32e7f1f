package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type PaymentStore interface {
	ReservePayment(ctx context.Context, orderID uuid.UUID, p *models.Payment) (*models.Payment, bool, error)
	SetProviderOrderRef(ctx context.Context, paymentID uuid.UUID, ref string) error
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindPaymentByProviderRef(ctx context.Context, provider, ref string) (*models.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID uuid.UUID, c repo.Confirmation) (*models.Payment, repo.ConfirmOutcome, error)
	AttachPaymentRef(ctx context.Context, id uuid.UUID, ref, signature string) (bool, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID, payload string) (bool, error)
	ListStalePayments(ctx context.Context, before time.Time, limit int) ([]models.Payment, error)
}

type CatalogStore interface {
	ListProducts(ctx context.Context, f repo.ProductFilter) (int64, []models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProductBySlug(ctx context.Context, slug string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategoryBySlug(ctx context.Context, slug string) error
}

type BlogStore interface {
	ListBlogPosts(ctx context.Context, published *bool) ([]models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, p *models.BlogPost) error
	SaveBlogPost(ctx context.Context, p *models.BlogPost) error
	DeleteBlogPostBySlug(ctx context.Context, slug string) error
}

type StatsStore interface {
	Stats(ctx context.Context) (*repo.Stats, error)
}

var (
	_ CredentialStore = (*repo.GormRepo)(nil)
	_ OrderStore      = (*repo.GormRepo)(nil)
	_ PaymentStore    = (*repo.GormRepo)(nil)
	_ CatalogStore    = (*repo.GormRepo)(nil)
	_ BlogStore       = (*repo.GormRepo)(nil)
	_ StatsStore      = (*repo.GormRepo)(nil)
)

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", apperr.ErrNotFound, s)
	}
	return id, nil
}

// notFound turns a missing row into ErrNotFound with the given public
// message and passes every other error through untouched.
func notFound(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, msg)
	}
	return err
}

func publish(ctx context.Context, p events.Publisher, topic, key, eventType string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, events.NewEnvelope(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", eventType, "error", err)
	}
}
