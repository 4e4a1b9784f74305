// internal/domain/payment/entity.go
package payment

import (
	"strings"

	"github.com/shopspring/decimal"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

// Provider payment statuses (Mercado Pago).
const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPending  = "pending"
)

// ProviderPayment is the authoritative payment resource fetched from the provider.
type ProviderPayment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail,omitempty"`
	ExternalReference string  `json:"external_reference,omitempty"`
	TransactionAmount float64 `json:"transaction_amount,omitempty"`
	PayerEmail        string  `json:"payer_email,omitempty"`
}

func (p ProviderPayment) IsApproved() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), StatusApproved)
}

// Covers reports whether the charged amount, rounded to cents, reaches total.
// A missing amount never covers a positive total.
func (p ProviderPayment) Covers(total float64) bool {
	paid := decimal.NewFromFloat(p.TransactionAmount).Round(2)
	return paid.GreaterThanOrEqual(decimal.NewFromFloat(total).Round(2))
}

// MapStatus maps provider status to order status.
// approved -> aceptado, rejected -> rechazado, anything else -> pendiente.
func MapStatus(providerStatus string) orderdom.Status {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case StatusApproved:
		return orderdom.StatusAccepted
	case StatusRejected:
		return orderdom.StatusRejected
	default:
		return orderdom.StatusPending
	}
}

// Notification is an inbound webhook delivery, reduced to what reconciliation needs.
type Notification struct {
	Type      string
	PaymentID string
}

func (n Notification) IsPayment() bool {
	return strings.EqualFold(strings.TrimSpace(n.Type), "payment") && strings.TrimSpace(n.PaymentID) != ""
}

// PreferenceItem is one line of a payment preference.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	PictureURL string  `json:"picture_url,omitempty"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

type Payer struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceRequest is the provider-side "intent to pay".
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	Payer             Payer            `json:"payer"`
	BackURLs          BackURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return,omitempty"`
	NotificationURL   string           `json:"notification_url"`
	ExternalReference string           `json:"external_reference"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// RedirectURL returns init_point, falling back to sandbox_init_point.
func (p Preference) RedirectURL() string {
	if s := strings.TrimSpace(p.InitPoint); s != "" {
		return s
	}
	return strings.TrimSpace(p.SandboxInitPoint)
}
