// internal/application/usecase/ports.go
package usecase

import (
	"context"
	"io"

	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

// PaymentGateway is the outbound port to the payment provider.
// Implementations return *UpstreamError for provider-side failures.
type PaymentGateway interface {
	GetPayment(ctx context.Context, paymentID string) (*paymentdom.ProviderPayment, error)
	CreatePreference(ctx context.Context, req paymentdom.PreferenceRequest) (*paymentdom.Preference, error)
}

// MessageSender sends a text message to a digits-only phone number.
// The returned value is the provider response body.
type MessageSender interface {
	SendText(ctx context.Context, to, text string) (any, error)
}

// Mailer sends plain text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher emits domain events (order.created, ...). Best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// ImageStore stores an uploaded image and returns its public URL.
type ImageStore interface {
	Put(ctx context.Context, fileName, contentType string, r io.Reader) (string, error)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

// NopPublisher discards events.
var NopPublisher EventPublisher = nopPublisher{}

func orNopPublisher(p EventPublisher) EventPublisher {
	if p == nil {
		return NopPublisher
	}
	return p
}
