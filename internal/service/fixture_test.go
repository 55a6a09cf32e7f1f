package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/payment"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/internal/testdb"
	"github.com/Skotchmaster/vigor_shop/pkg/cache"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

type fixture struct {
	db       *gorm.DB
	repo     *repo.GormRepo
	events   *events.Memory
	provider *stubProvider
	auth     *AuthService
	orders   *OrderService
	payments *PaymentService
	catalog  *CatalogService
	blog     *BlogService
	admin    *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	r := repo.New(db)
	pub := &events.Memory{}
	prov := &stubProvider{LocalProvider: payment.NewLocalProvider(payment.Razorpay, testKeyID, testKeySecret)}
	signer := tokens.NewSigner([]byte("access"), []byte("refresh"), 15*time.Minute, 24*time.Hour)

	f := &fixture{
		db:       db,
		repo:     r,
		events:   pub,
		provider: prov,
		auth:     NewAuthService(r, signer, pub),
		orders:   NewOrderService(r, pub),
		payments: NewPaymentService(payment.NewRegistry(prov), r, r, pub, PaymentConfig{
			Currency:        "INR",
			ProviderTimeout: time.Second,
			IntentTTL:       30 * time.Minute,
		}),
		catalog: NewCatalogService(r, cache.New("", "", "test:", time.Minute), pub),
		blog:    NewBlogService(r),
		admin:   NewAdminService(r, r),
	}
	return f
}

// stubProvider wraps the local provider so tests can inject failures and
// provider-side order states.
type stubProvider struct {
	*payment.LocalProvider
	createErr error
	statuses  map[string]string
	fetchErr  error
}

func (p *stubProvider) CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.ProviderOrder, error) {
	if p.createErr != nil {
		return payment.ProviderOrder{}, p.createErr
	}
	return p.LocalProvider.CreateOrder(ctx, req)
}

func (p *stubProvider) FetchOrder(ctx context.Context, ref string) (payment.ProviderOrder, error) {
	if p.fetchErr != nil {
		return payment.ProviderOrder{}, p.fetchErr
	}
	if st, ok := p.statuses[ref]; ok {
		return payment.ProviderOrder{Ref: ref, Status: st}, nil
	}
	return p.LocalProvider.FetchOrder(ctx, ref)
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, _, err := f.auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Name:     "Test User",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) makeAdmin(t *testing.T, u *models.User) {
	t.Helper()
	require.NoError(t, f.db.Model(u).Update("role", models.RoleAdmin).Error)
}

func sampleDraft() OrderDraft {
	return OrderDraft{
		Items: []models.OrderItem{
			{ProductID: "ashwagandha-gold", Title: "Ashwagandha Gold", Price: 1000, Quantity: 1},
		},
		Subtotal: 1000,
		Tax:      180,
		Shipping: 0,
		Total:    1180,
		ShippingAddress: models.ShippingAddress{
			Name:         "Asha Rao",
			Phone:        "9876543210",
			AddressLine1: "12 MG Road",
			City:         "Bengaluru",
			State:        "Karnataka",
			Pincode:      "560001",
			Country:      "India",
		},
	}
}

func (f *fixture) placeOrder(t *testing.T, owner *models.User) *models.Order {
	t.Helper()
	o, err := f.orders.Place(context.Background(), sampleDraft(), owner.ID.String())
	require.NoError(t, err)
	return o
}

// completeCheckout signs the way the payment widget does after a successful
// payment.
func completeCheckout(orderRef, paymentRef string) VerifyInput {
	return VerifyInput{
		ProviderOrderRef:   orderRef,
		ProviderPaymentRef: paymentRef,
		ProviderSignature:  payment.Sign([]byte(testKeySecret), orderRef, paymentRef),
	}
}
