package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/payment"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/testdb"
	"github.com/Skotchmaster/vigor_shop/pkg/cache"
	"github.com/Skotchmaster/vigor_shop/pkg/cookie"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

const testSecret = "rzp_test_secret"

type testServer struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testdb.New(t)
	r := repo.New(db)
	pub := events.Noop{}
	accessSecret, refreshSecret := []byte("access-secret"), []byte("refresh-secret")
	signer := tokens.NewSigner(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
	providers := payment.NewRegistry(payment.NewLocalProvider(payment.Razorpay, "rzp_test_key", testSecret))

	e := New(&Deps{
		Auth:    &AuthHTTP{Svc: service.NewAuthService(r, signer, pub), Cookie: cookie.Options{Path: "/api/v1/auth"}},
		Catalog: &CatalogHTTP{Svc: service.NewCatalogService(r, cache.New("", "", "", 0), pub)},
		Blog:    &BlogHTTP{Svc: service.NewBlogService(r)},
		Orders:  &OrderHTTP{Svc: service.NewOrderService(r, pub)},
		Payment: &PaymentHTTP{Svc: service.NewPaymentService(providers, r, r, pub, service.PaymentConfig{
			Currency:  "INR",
			IntentTTL: 30 * time.Minute,
		})},
		Admin:       &AdminHTTP{Svc: service.NewAdminService(r, r)},
		Guard:       middleware.NewGuard(accessSecret, refreshSecret),
		CORSOrigins: []string{"http://localhost:5173"},
		Logger:      logging.NewWithWriter(io.Discard, "error"),
		Ready:       func(context.Context) error { return nil },
	})
	return &testServer{e: e, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type authBody struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

func (s *testServer) register(t *testing.T, email string) (authBody, *http.Cookie) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "name": "Test User", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.RefreshName {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	return decode[authBody](t, rec), refresh
}

func orderBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": "ashwagandha-gold", "title": "Ashwagandha Gold", "price": 1000, "quantity": 1},
		},
		"subtotal": 1000,
		"tax":      180,
		"shipping": 0,
		"total":    1180,
		"shippingAddress": map[string]string{
			"name": "Asha Rao", "phone": "9876543210", "addressLine1": "12 MG Road",
			"city": "Bengaluru", "state": "Karnataka", "pincode": "560001", "country": "India",
		},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/metrics", "", nil).Code)
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	user, _ := s.register(t, "buyer@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/orders", user.AccessToken, orderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.Equal(t, models.OrderPending, order.Status)

	rec = s.do(t, http.MethodPost, "/api/v1/payments/razorpay/order", user.AccessToken, map[string]string{"orderId": order.ID.String()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	intent := decode[service.Intent](t, rec)
	assert.InDelta(t, 1180, intent.Amount, 0.001)
	assert.Equal(t, "rzp_test_key", intent.PublicKey)

	// the widget posts its own field names back
	rec = s.do(t, http.MethodPost, "/api/v1/payments/razorpay/verify", user.AccessToken, map[string]string{
		"razorpay_order_id":   intent.ProviderOrderRef,
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  payment.Sign([]byte(testSecret), intent.ProviderOrderRef, "pay_123"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[service.VerifyResult](t, rec)
	assert.True(t, res.Success)

	rec = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID.String(), user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OrderProcessing, decode[models.Order](t, rec).Status)
}

func TestCheckoutFlow_WrongSecret(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	user, _ := s.register(t, "tamper@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/orders", user.AccessToken, orderBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[models.Order](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/payments/razorpay/order", user.AccessToken, map[string]string{"orderId": order.ID.String()})
	require.Equal(t, http.StatusCreated, rec.Code)
	intent := decode[service.Intent](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/payments/razorpay/verify", user.AccessToken, map[string]string{
		"providerOrderRef":   intent.ProviderOrderRef,
		"providerPaymentRef": "pay_123",
		"providerSignature":  payment.Sign([]byte("wrong"), intent.ProviderOrderRef, "pay_123"),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid payment signature")

	rec = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID.String(), user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OrderPending, decode[models.Order](t, rec).Status)
}

func TestOrders_Isolation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	a, _ := s.register(t, "a@example.com")
	b, _ := s.register(t, "b@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/orders", a.AccessToken, orderBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[models.Order](t, rec)

	rec = s.do(t, http.MethodGet, "/api/v1/orders/my-orders", b.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Order](t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID.String(), b.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payments/razorpay/order", b.AccessToken, map[string]string{"orderId": order.ID.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// admin-only listing
	rec = s.do(t, http.MethodGet, "/api/v1/orders", a.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_RegisterValidation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{name: "bad email", body: map[string]string{"email": "nope", "name": "Al", "password": "password123"}, want: "email must be a valid email"},
		{name: "short name", body: map[string]string{"email": "x@example.com", "name": "A", "password": "password123"}, want: "name must be at least 2 characters"},
		{name: "short password", body: map[string]string{"email": "x@example.com", "name": "Al", "password": "short"}, want: "password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestAuth_DuplicateAndLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.register(t, "dup@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "dup@example.com", "name": "Other", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "dup@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	wrong := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "dup@example.com", "password": "nope-nope"})
	unknown := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestAuth_RefreshMeLogout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	user, refresh := s.register(t, "session@example.com")

	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/v1/auth", refresh.Path)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session@example.com", decode[models.User](t, rec).Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the refresh token is not accepted as an access token
	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", refresh.Value, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[map[string]string](t, rec)["accessToken"])

	rec = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	crossSite := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	crossSite.Header.Set(echo.HeaderOrigin, "https://evil.example")
	crossSite.AddCookie(refresh)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, crossSite)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/logout", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.RefreshName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestAdminRoutes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin, _ := s.register(t, "admin@example.com")
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", admin.User.ID).Update("role", models.RoleAdmin).Error)

	// the role travels in the token, so log in again after promotion
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[authBody](t, rec).AccessToken

	rec = s.do(t, http.MethodPost, "/api/v1/categories", token, map[string]string{"slug": "digestive-health", "name": "Digestive Health"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/admin/products", token, map[string]any{
		"slug": "triphala-plus", "title": "Triphala Plus", "price": 499, "category": "digestive-health",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/products?category=digestive-health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}](t, rec)
	assert.Equal(t, int64(1), list.Meta.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "triphala-plus", list.Data[0].Slug)

	rec = s.do(t, http.MethodPost, "/api/v1/blog", token, map[string]any{"slug": "hello", "title": "Hello", "published": false})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/blog/hello", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/admin/blog?published=false", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.BlogPost](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, stats["totalProducts"])
	assert.EqualValues(t, 1, stats["totalUsers"])

	buyer, _ := s.register(t, "buyer@example.com")
	rec = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", buyer.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/users/"+buyer.User.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
