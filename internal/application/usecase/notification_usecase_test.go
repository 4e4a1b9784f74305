package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

func TestSendWhatsApp_Validation(t *testing.T) {
	ctx := context.Background()
	unconfigured := NewNotificationUsecase(nil, nil, "")

	if _, err := unconfigured.SendWhatsApp(ctx, "", "hola"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("missing to err = %v, want ErrInvalidArgument", err)
	}
	if _, err := unconfigured.SendWhatsApp(ctx, "123", "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("missing text err = %v, want ErrInvalidArgument", err)
	}
	if _, err := unconfigured.SendWhatsApp(ctx, "123", "hola"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("unconfigured err = %v, want ErrNotConfigured", err)
	}
}

func TestSendWhatsApp_StripsNonDigits(t *testing.T) {
	sender := &fakeSender{}
	uc := NewNotificationUsecase(sender, nil, "")

	data, err := uc.SendWhatsApp(context.Background(), "+54 (341) 555-1234", "hola")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if data == nil || len(sender.sent) != 1 || sender.sent[0].to != "543415551234" {
		t.Fatalf("sent = %+v data=%v", sender.sent, data)
	}
	if _, err := uc.SendWhatsApp(context.Background(), "abc", "hola"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("no digits err = %v, want ErrInvalidArgument", err)
	}
}

func TestSendWhatsApp_ProviderFailure(t *testing.T) {
	sender := &fakeSender{err: &UpstreamError{Provider: "whatsapp", StatusCode: 401, Payload: map[string]any{"error": "bad token"}}}
	uc := NewNotificationUsecase(sender, nil, "")
	if _, err := uc.SendWhatsApp(context.Background(), "123", "hola"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestFormatOrderSummary(t *testing.T) {
	o := &orderdom.Order{
		ID:              "o-9",
		Items:           []orderdom.Item{{ProductID: "p1", Name: "Runner", Quantity: 2, Price: 1000, SelectedColor: "Negro", SelectedSize: "42"}},
		Total:           2000,
		ShippingAddress: testAddress,
	}
	s := FormatOrderSummary(o)
	for _, want := range []string{"Pedido #o-9", "2 x Runner (Negro, talle 42)", "Total: $2000.00", "Rosario"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}
