// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"strings"

	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// OrderMailer implements usecase.Mailer with a fixed sender address.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
}

var _ uc.Mailer = (*OrderMailer)(nil)

func NewOrderMailer(client EmailClient, fromAddress string) *OrderMailer {
	return &OrderMailer{client: client, fromAddress: strings.TrimSpace(fromAddress)}
}

func (m *OrderMailer) Send(ctx context.Context, to, subject, body string) error {
	if m == nil || m.client == nil {
		return errors.New("mail: client is nil")
	}
	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(to), subject, body)
}
