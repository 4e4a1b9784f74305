package payment

import (
	"errors"
	"testing"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

func TestMapStatus(t *testing.T) {
	cases := map[string]orderdom.Status{
		"approved":     orderdom.StatusAccepted,
		"APPROVED":     orderdom.StatusAccepted,
		"rejected":     orderdom.StatusRejected,
		"pending":      orderdom.StatusPending,
		"in_process":   orderdom.StatusPending,
		"charged_back": orderdom.StatusPending,
		"":             orderdom.StatusPending,
	}
	for in, want := range cases {
		if got := MapStatus(in); got != want {
			t.Errorf("MapStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNotification_IsPayment(t *testing.T) {
	if !(Notification{Type: "payment", PaymentID: "1"}).IsPayment() {
		t.Fatal("payment notification not recognized")
	}
	if (Notification{Type: "merchant_order", PaymentID: "1"}).IsPayment() {
		t.Fatal("merchant_order treated as payment")
	}
	if (Notification{Type: "payment"}).IsPayment() {
		t.Fatal("missing id treated as payment")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "s3cr3t"
	sig := SignManifest(secret, Manifest("123ABC", "req-1", "1700000000"))
	header := "ts=1700000000,v1=" + sig

	if err := VerifySignature(secret, header, "req-1", "123abc"); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := VerifySignature(secret, header, "req-2", "123abc"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("tampered request id: %v", err)
	}
	if err := VerifySignature(secret, "", "req-1", "123abc"); !errors.Is(err, ErrSignatureMissing) {
		t.Fatalf("missing header: %v", err)
	}
	if err := VerifySignature(secret, "ts=1", "req-1", "123abc"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("malformed header: %v", err)
	}
}

func TestPreference_RedirectURL(t *testing.T) {
	p := Preference{SandboxInitPoint: "https://sandbox"}
	if p.RedirectURL() != "https://sandbox" {
		t.Fatalf("fallback not used")
	}
	p.InitPoint = "https://live"
	if p.RedirectURL() != "https://live" {
		t.Fatalf("init_point not preferred")
	}
}

func TestProviderPayment_Covers(t *testing.T) {
	cases := []struct {
		amount, total float64
		want          bool
	}{
		{1000, 1000, true},
		{1000.001, 1000, true},
		{1200, 1000, true},
		{999.99, 1000, false},
		{1, 1000, false},
		{0, 1000, false},
		{0, 0, true},
	}
	for _, c := range cases {
		p := ProviderPayment{Status: StatusApproved, TransactionAmount: c.amount}
		if got := p.Covers(c.total); got != c.want {
			t.Errorf("Covers(amount=%v, total=%v) = %v, want %v", c.amount, c.total, got, c.want)
		}
	}
}
