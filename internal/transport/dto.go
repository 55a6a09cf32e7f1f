package transport

import (
	"github.com/Skotchmaster/vigor_shop/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=2"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Quantity  int     `json:"quantity"  validate:"gte=1"`
}

type AddressRequest struct {
	Name         string `json:"name"         validate:"required"`
	Phone        string `json:"phone"        validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"         validate:"required"`
	State        string `json:"state"        validate:"required"`
	Pincode      string `json:"pincode"      validate:"required"`
	Country      string `json:"country"      validate:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"           validate:"required,min=1,dive"`
	Subtotal        float64            `json:"subtotal"        validate:"gte=0"`
	Tax             float64            `json:"tax"             validate:"gte=0"`
	Shipping        float64            `json:"shipping"        validate:"gte=0"`
	Total           float64            `json:"total"           validate:"gte=0"`
	ShippingAddress AddressRequest     `json:"shippingAddress" validate:"required"`
}

func (r CreateOrderRequest) OrderItems() []models.OrderItem {
	out := make([]models.OrderItem, len(r.Items))
	for i, it := range r.Items {
		out[i] = models.OrderItem{ProductID: it.ProductID, Title: it.Title, Price: it.Price, Quantity: it.Quantity}
	}
	return out
}

func (a AddressRequest) Model() models.ShippingAddress {
	return models.ShippingAddress{
		Name:         a.Name,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Country:      a.Country,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateIntentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// VerifyRequest also accepts the field names the Razorpay checkout widget
// posts back verbatim.
type VerifyRequest struct {
	ProviderOrderRef   string `json:"providerOrderRef"`
	ProviderPaymentRef string `json:"providerPaymentRef"`
	ProviderSignature  string `json:"providerSignature"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r *VerifyRequest) Normalize() {
	if r.ProviderOrderRef == "" {
		r.ProviderOrderRef = r.RazorpayOrderID
	}
	if r.ProviderPaymentRef == "" {
		r.ProviderPaymentRef = r.RazorpayPaymentID
	}
	if r.ProviderSignature == "" {
		r.ProviderSignature = r.RazorpaySignature
	}
}

type ProductRequest struct {
	Slug         *string  `json:"slug"        validate:"omitempty,min=1,max=120"`
	Title        *string  `json:"title"       validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Benefits     []string `json:"benefits"`
	Price        *float64 `json:"price"       validate:"omitempty,gte=0"`
	MRP          *float64 `json:"mrp"         validate:"omitempty,gte=0"`
	Images       []string `json:"images"`
	Stock        *int     `json:"stock"       validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive"`
	CategorySlug *string  `json:"category"`
}

type CategoryRequest struct {
	Slug        *string `json:"slug"        validate:"omitempty,min=1,max=120"`
	Name        *string `json:"name"        validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

type BlogRequest struct {
	Slug       *string  `json:"slug"       validate:"omitempty,min=1,max=160"`
	Title      *string  `json:"title"      validate:"omitempty,min=1,max=200"`
	Excerpt    *string  `json:"excerpt"`
	Body       *string  `json:"body"`
	Tags       []string `json:"tags"`
	Published  *bool    `json:"published"`
	CoverImage *string  `json:"coverImage"`
	Author     *string  `json:"author"`
}
