package payment

import (
	"context"
	"errors"
)

const Razorpay = "razorpay"

// Provider-side order states as reported by FetchOrder.
const (
	StatusCreated   = "created"
	StatusAttempted = "attempted"
	StatusPaid      = "paid"
)

var ErrProvider = errors.New("payment provider error")

type OrderRequest struct {
	// Amount in minor units (paise for INR).
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type ProviderOrder struct {
	Ref      string
	Amount   int64
	Currency string
	Status   string
}

// Provider abstracts the server-to-server half of a payment provider. The
// browser half (the widget) only ever sees PublicKey and the order ref.
type Provider interface {
	Name() string
	PublicKey() string
	Secret() []byte
	CreateOrder(ctx context.Context, req OrderRequest) (ProviderOrder, error)
	FetchOrder(ctx context.Context, ref string) (ProviderOrder, error)
}

type Registry map[string]Provider

func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		r[p.Name()] = p
	}
	return r
}

func (r Registry) Get(name string) (Provider, bool) {
	p, ok := r[name]
	return p, ok
}
