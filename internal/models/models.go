package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"        json:"email"`
	Name         string    `gorm:"not null"                    json:"name"`
	Phone        string    `                                   json:"phone,omitempty"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Role         string    `gorm:"not null;default:USER"       json:"role"`
	CreatedAt    time.Time `                                   json:"createdAt"`
	UpdatedAt    time.Time `                                   json:"updatedAt"`
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null"  json:"slug"`
	Name        string    `gorm:"not null"              json:"name"`
	Description string    `                             json:"description,omitempty"`
	CreatedAt   time.Time `                             json:"createdAt"`
	UpdatedAt   time.Time `                             json:"updatedAt"`
}

type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"             json:"id"`
	Slug        string     `gorm:"uniqueIndex;not null"             json:"slug"`
	Title       string     `gorm:"not null"                         json:"title"`
	Description string     `gorm:"type:text"                        json:"description"`
	Ingredients []string   `gorm:"serializer:json;type:text"        json:"ingredients"`
	Benefits    []string   `gorm:"serializer:json;type:text"        json:"benefits"`
	Price       float64    `gorm:"not null"                         json:"price"`
	MRP         float64    `gorm:"column:mrp"                       json:"mrp"`
	Images      []string   `gorm:"serializer:json;type:text"        json:"images"`
	Stock       int        `gorm:"not null;default:0"               json:"stock"`
	IsActive    bool       `gorm:"not null"                         json:"isActive"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"                  json:"categoryId,omitempty"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL"     json:"category,omitempty"`
	CreatedAt   time.Time  `                                        json:"createdAt"`
	UpdatedAt   time.Time  `                                        json:"updatedAt"`
}

type BlogPost struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Slug       string    `gorm:"uniqueIndex;not null"       json:"slug"`
	Title      string    `gorm:"not null"                   json:"title"`
	Excerpt    string    `                                  json:"excerpt,omitempty"`
	Body       string    `gorm:"type:text"                  json:"body"`
	Tags       []string  `gorm:"serializer:json;type:text"  json:"tags"`
	Published  bool      `gorm:"not null;default:false"     json:"published"`
	CoverImage string    `                                  json:"coverImage,omitempty"`
	Author     string    `                                  json:"author,omitempty"`
	CreatedAt  time.Time `                                  json:"createdAt"`
	UpdatedAt  time.Time `                                  json:"updatedAt"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddress struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// Order is immutable once placed except for Status.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"           json:"id"`
	Items           []OrderItem     `gorm:"serializer:json;type:text"      json:"items"`
	Subtotal        float64         `gorm:"not null"                       json:"subtotal"`
	Tax             float64         `gorm:"not null"                       json:"tax"`
	Shipping        float64         `gorm:"not null"                       json:"shipping"`
	Total           float64         `gorm:"not null"                       json:"total"`
	Status          OrderStatus     `gorm:"not null;index;default:PENDING" json:"status"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"       json:"userId"`
	ShippingAddress ShippingAddress `gorm:"serializer:json;type:text"      json:"shippingAddress"`
	CreatedAt       time.Time       `gorm:"index"                          json:"createdAt"`
	UpdatedAt       time.Time       `                                      json:"updatedAt"`
}

type Payment struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey"            json:"id"`
	OrderID            uuid.UUID     `gorm:"type:uuid;index;not null"        json:"orderId"`
	Provider           string        `gorm:"not null"                        json:"provider"`
	Receipt            string        `gorm:"uniqueIndex;not null"            json:"receipt"`
	ProviderOrderRef   *string       `gorm:"uniqueIndex"                     json:"providerOrderRef,omitempty"`
	ProviderPaymentRef string        `                                       json:"providerPaymentRef,omitempty"`
	ProviderSignature  string        `                                       json:"-"`
	Amount             float64       `gorm:"not null"                        json:"amount"`
	Currency           string        `gorm:"not null"                        json:"currency"`
	Status             PaymentStatus `gorm:"not null;index;default:PENDING"  json:"status"`
	Payload            string        `gorm:"type:text"                       json:"-"`
	CreatedAt          time.Time     `gorm:"index"                           json:"createdAt"`
	UpdatedAt          time.Time     `                                       json:"updatedAt"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error     { newID(&u.ID); return nil }
func (c *Category) BeforeCreate(tx *gorm.DB) error { newID(&c.ID); return nil }
func (p *Product) BeforeCreate(tx *gorm.DB) error  { newID(&p.ID); return nil }
func (b *BlogPost) BeforeCreate(tx *gorm.DB) error { newID(&b.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error    { newID(&o.ID); return nil }
func (p *Payment) BeforeCreate(tx *gorm.DB) error  { newID(&p.ID); return nil }

func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &BlogPost{}, &Order{}, &Payment{}}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
