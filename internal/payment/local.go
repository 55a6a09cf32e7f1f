package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// LocalProvider mints order refs in process and never talks to the network.
// It stands in for the provider when no API URL is configured; the widget
// still signs with the shared secret, so verification is unchanged.
type LocalProvider struct {
	name      string
	publicKey string
	secret    []byte
}

func NewLocalProvider(name, publicKey, secret string) *LocalProvider {
	return &LocalProvider{name: name, publicKey: publicKey, secret: []byte(secret)}
}

func (p *LocalProvider) Name() string      { return p.name }
func (p *LocalProvider) PublicKey() string { return p.publicKey }
func (p *LocalProvider) Secret() []byte    { return p.secret }

func (p *LocalProvider) CreateOrder(ctx context.Context, req OrderRequest) (ProviderOrder, error) {
	if err := ctx.Err(); err != nil {
		return ProviderOrder{}, err
	}
	ref, err := NewRef("order_")
	if err != nil {
		return ProviderOrder{}, err
	}
	return ProviderOrder{Ref: ref, Amount: req.Amount, Currency: req.Currency, Status: StatusCreated}, nil
}

func (p *LocalProvider) FetchOrder(ctx context.Context, ref string) (ProviderOrder, error) {
	if err := ctx.Err(); err != nil {
		return ProviderOrder{}, err
	}
	return ProviderOrder{Ref: ref, Status: StatusCreated}, nil
}

// NewRef returns prefix followed by 24 random hex characters.
func NewRef(prefix string) (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random ref: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}
