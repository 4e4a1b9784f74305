package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer TEST-token" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"id":123,"status":"approved","external_reference":"order-1","transaction_amount":1000.5,"payer":{"email":"a@b.c"}}`))
	}))
	defer srv.Close()

	c := NewClient("TEST-token", srv.URL, time.Second, 0)
	p, err := c.GetPayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != "123" || !p.IsApproved() || p.ExternalReference != "order-1" || p.PayerEmail != "a@b.c" {
		t.Fatalf("payment = %+v", p)
	}
}

func TestGetPayment_NotFoundIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Payment not found","error":"not_found","status":404}`))
	}))
	defer srv.Close()

	_, err := NewClient("t", srv.URL, time.Second, 0).GetPayment(context.Background(), "9")
	var ue *uc.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != 404 || ue.Provider != "mercadopago" {
		t.Fatalf("err = %#v", err)
	}
}

func TestCreatePreference(t *testing.T) {
	var got paymentdom.PreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/preferences" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Idempotency-Key") == "" {
			t.Error("missing idempotency key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp/init","sandbox_init_point":"https://sandbox/init"}`))
	}))
	defer srv.Close()

	req := paymentdom.PreferenceRequest{
		Items:             []paymentdom.PreferenceItem{{Title: "Zapatilla", Quantity: 1, UnitPrice: 1000, CurrencyID: "ARS"}},
		ExternalReference: "order-1",
		NotificationURL:   "https://shop/api/webhooks/mercadopago",
	}
	pref, err := NewClient("t", srv.URL, time.Second, 0).CreatePreference(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pref.ID != "pref-1" || pref.RedirectURL() != "https://mp/init" {
		t.Fatalf("pref = %+v", pref)
	}
	if got.ExternalReference != "order-1" || len(got.Items) != 1 || got.Items[0].UnitPrice != 1000 {
		t.Fatalf("sent = %+v", got)
	}
}
