// internal/adapters/out/mercadopago/client.go
package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HydraRosario/vibeshoes/internal/adapters/out/httpout"
	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

const (
	DefaultBaseURL = "https://api.mercadopago.com"
	provider       = "mercadopago"
)

// Client implements usecase.PaymentGateway against the Mercado Pago REST API.
type Client struct {
	http *httpout.Client
}

var _ uc.PaymentGateway = (*Client)(nil)

func NewClient(accessToken, baseURL string, timeout time.Duration, maxRetries int) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpout.New(provider, baseURL, accessToken, timeout, maxRetries)}
}

// paymentWire is the subset of GET /v1/payments/{id} we read. id is numeric upstream.
type paymentWire struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	ExternalReference string      `json:"external_reference"`
	TransactionAmount float64     `json:"transaction_amount"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*paymentdom.ProviderPayment, error) {
	pid := strings.TrimSpace(paymentID)
	if pid == "" {
		return nil, errors.New("mercadopago: payment id is empty")
	}
	var w paymentWire
	err := c.http.Do(ctx, httpout.Request{
		Method:     http.MethodGet,
		Path:       "/v1/payments/" + url.PathEscape(pid),
		Idempotent: true,
	}, &w)
	if err != nil {
		return nil, err
	}
	return &paymentdom.ProviderPayment{
		ID:                w.ID.String(),
		Status:            w.Status,
		StatusDetail:      w.StatusDetail,
		ExternalReference: w.ExternalReference,
		TransactionAmount: w.TransactionAmount,
		PayerEmail:        w.Payer.Email,
	}, nil
}

// CreatePreference posts with an idempotency key so retried calls create one preference.
func (c *Client) CreatePreference(ctx context.Context, req paymentdom.PreferenceRequest) (*paymentdom.Preference, error) {
	var pref paymentdom.Preference
	err := c.http.Do(ctx, httpout.Request{
		Method:     http.MethodPost,
		Path:       "/checkout/preferences",
		Body:       req,
		Idempotent: true,
		Header:     map[string]string{"X-Idempotency-Key": httpout.NewIdempotencyKey()},
	}, &pref)
	if err != nil {
		return nil, err
	}
	return &pref, nil
}
