package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultRazorpayURL = "https://api.razorpay.com"

type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	if baseURL == "" {
		baseURL = DefaultRazorpayURL
	}
	return &RazorpayClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *RazorpayClient) Name() string      { return Razorpay }
func (c *RazorpayClient) PublicKey() string { return c.keyID }
func (c *RazorpayClient) Secret() []byte    { return []byte(c.keySecret) }

type razorpayOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Status   string            `json:"status,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (ProviderOrder, error) {
	body, err := json.Marshal(razorpayOrder{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return ProviderOrder{}, fmt.Errorf("encode request: %w", err)
	}

	var out razorpayOrder
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &out); err != nil {
		return ProviderOrder{}, err
	}
	return out.toProviderOrder(), nil
}

func (c *RazorpayClient) FetchOrder(ctx context.Context, ref string) (ProviderOrder, error) {
	var out razorpayOrder
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(ref), nil, &out); err != nil {
		return ProviderOrder{}, err
	}
	return out.toProviderOrder(), nil
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, body []byte, dst any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var pe razorpayError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&pe)
		return fmt.Errorf("%w: %s %s: status %d %s", ErrProvider, method, path, resp.StatusCode, pe.Error.Description)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrProvider, err)
	}
	return nil
}

func (o razorpayOrder) toProviderOrder() ProviderOrder {
	return ProviderOrder{Ref: o.ID, Amount: o.Amount, Currency: o.Currency, Status: o.Status}
}
