// internal/application/usecase/notification_usecase.go
package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

// NotificationUsecase dispatches WhatsApp messages and order mails.
// Either sender may be nil; the matching operations then return ErrNotConfigured.
type NotificationUsecase struct {
	whatsapp    MessageSender
	mailer      Mailer
	adminNumber string
}

func NewNotificationUsecase(whatsapp MessageSender, mailer Mailer, adminNumber string) *NotificationUsecase {
	return &NotificationUsecase{
		whatsapp:    whatsapp,
		mailer:      mailer,
		adminNumber: DigitsOnly(adminNumber),
	}
}

// SendWhatsApp validates input, then configuration, then sends to the digits-only number.
func (uc *NotificationUsecase) SendWhatsApp(ctx context.Context, to, text string) (any, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(text) == "" {
		return nil, invalidArg("Missing to or text")
	}
	if uc == nil || uc.whatsapp == nil {
		return nil, fmt.Errorf("%w: WhatsApp", ErrNotConfigured)
	}
	digits := DigitsOnly(to)
	if digits == "" {
		return nil, invalidArg("destination number has no digits")
	}
	return uc.whatsapp.SendText(ctx, digits, text)
}

// NotifyAdmin sends text to the configured admin number.
func (uc *NotificationUsecase) NotifyAdmin(ctx context.Context, text string) error {
	if uc == nil || uc.adminNumber == "" {
		return fmt.Errorf("%w: admin WhatsApp number", ErrNotConfigured)
	}
	_, err := uc.SendWhatsApp(ctx, uc.adminNumber, text)
	return err
}

// ChatLink returns a wa.me link to the admin number with text pre-filled, or "".
func (uc *NotificationUsecase) ChatLink(text string) string {
	if uc == nil || uc.adminNumber == "" {
		return ""
	}
	return "https://wa.me/" + uc.adminNumber + "?text=" + url.QueryEscape(text)
}

// SendOrderConfirmation mails the buyer after the order is accepted.
func (uc *NotificationUsecase) SendOrderConfirmation(ctx context.Context, o *orderdom.Order) error {
	if uc == nil || uc.mailer == nil {
		return fmt.Errorf("%w: mailer", ErrNotConfigured)
	}
	if o == nil || strings.TrimSpace(o.UserEmail) == "" {
		return invalidArg("order has no buyer email")
	}
	subject := fmt.Sprintf("Tu pedido #%s fue confirmado", o.ID)
	return uc.mailer.Send(ctx, o.UserEmail, subject, FormatOrderSummary(o))
}

// FormatOrderSummary renders a plain-text order summary.
func FormatOrderSummary(o *orderdom.Order) string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido #%s\n", o.ID)
	if o.UserName != "" || o.UserEmail != "" {
		fmt.Fprintf(&b, "Cliente: %s %s\n", o.UserName, o.UserEmail)
	}
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = it.ProductID
		}
		fmt.Fprintf(&b, "- %d x %s", it.Quantity, name)
		if it.SelectedColor != "" || !it.SelectedSize.IsZero() {
			fmt.Fprintf(&b, " (%s, talle %s)", it.SelectedColor, it.SelectedSize)
		}
		fmt.Fprintf(&b, " $%.2f\n", it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", o.Total)
	a := o.ShippingAddress
	fmt.Fprintf(&b, "Envío: %s, %s, %s (%s)", a.Street, a.City, a.State, a.ZipCode)
	return b.String()
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
