package usecase

import (
	"context"
	"errors"
	"testing"

	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

func TestPreference_BuildRequest(t *testing.T) {
	uc := NewPreferenceUsecase(nil, nil, "https://vibeshoes.example/", "")
	req := uc.BuildRequest(PreferenceInput{
		OrderID:   "o-1",
		UserEmail: "ana@example.com",
		Items:     []PreferenceItemInput{{Title: " Zapatilla ", Quantity: 2, UnitPrice: 1000.004}},
	})

	if req.ExternalReference != "o-1" {
		t.Fatalf("external_reference = %q", req.ExternalReference)
	}
	if req.NotificationURL != "https://vibeshoes.example/api/webhooks/mercadopago" {
		t.Fatalf("notification_url = %q", req.NotificationURL)
	}
	if req.BackURLs.Success != "https://vibeshoes.example/checkout/success?orderId=o-1" ||
		req.BackURLs.Failure != "https://vibeshoes.example/checkout/failure?orderId=o-1" ||
		req.BackURLs.Pending != "https://vibeshoes.example/checkout/pending?orderId=o-1" {
		t.Fatalf("back_urls = %+v", req.BackURLs)
	}
	if req.AutoReturn != "approved" {
		t.Fatalf("auto_return = %q", req.AutoReturn)
	}
	it := req.Items[0]
	if it.Title != "Zapatilla" || it.UnitPrice != 1000 || it.CurrencyID != "ARS" {
		t.Fatalf("item = %+v", it)
	}
}

func TestResolveSiteURL(t *testing.T) {
	cases := []struct{ configured, origin, want string }{
		{"https://a.example/", "https://b.example", "https://a.example"},
		{"", "https://b.example/", "https://b.example"},
		{"", "", DefaultSiteURL},
	}
	for _, c := range cases {
		if got := ResolveSiteURL(c.configured, c.origin); got != c.want {
			t.Errorf("ResolveSiteURL(%q, %q) = %q, want %q", c.configured, c.origin, got, c.want)
		}
	}
}

func TestPreference_Create(t *testing.T) {
	s := newShop(t)
	o := s.placeOrder(t)
	s.gateway.pref = &paymentdom.Preference{ID: "pref-1", SandboxInitPoint: "https://sandbox.mp/init"}
	uc := NewPreferenceUsecase(s.gateway, s.store.Orders(), "", "ARS")
	ctx := context.Background()

	in := PreferenceInput{
		OrderID: o.ID,
		UserID:  "u1",
		Items:   []PreferenceItemInput{{Title: "Zapatilla p1", Quantity: 1, UnitPrice: 1000}},
		Total:   1000,
	}
	res, err := uc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.InitPoint != "https://sandbox.mp/init" || res.ID != "pref-1" || res.OrderID != o.ID {
		t.Fatalf("result = %+v", res)
	}
	stored, _ := s.store.Orders().GetByID(ctx, o.ID)
	if stored.PreferenceID != "pref-1" || stored.ExternalReference != o.ID {
		t.Fatalf("order not stamped: %+v", stored)
	}

	foreign := in
	foreign.UserID = "u2"
	if _, err := uc.Create(ctx, foreign); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign order err = %v, want ErrForbidden", err)
	}
	wrongTotal := in
	wrongTotal.Total = 999
	if _, err := uc.Create(ctx, wrongTotal); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("total mismatch err = %v, want ErrInvalidArgument", err)
	}
	missing := in
	missing.OrderID = "nope"
	if _, err := uc.Create(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing order err = %v, want ErrNotFound", err)
	}
}

func TestPreference_ItemsComeFromStoredOrder(t *testing.T) {
	s := newShop(t)
	o := s.placeOrder(t)
	s.gateway.pref = &paymentdom.Preference{ID: "pref-2", InitPoint: "https://mp/init"}
	uc := NewPreferenceUsecase(s.gateway, s.store.Orders(), "", "ARS")

	// the client claims a unit price of 1 for the 1000.00 order
	_, err := uc.Create(context.Background(), PreferenceInput{
		OrderID: o.ID,
		UserID:  "u1",
		Items:   []PreferenceItemInput{{Title: "x", Quantity: 1, UnitPrice: 1}},
		Total:   1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req := s.gateway.gotPref
	if req == nil || len(req.Items) != 1 {
		t.Fatalf("preference request = %+v", req)
	}
	it := req.Items[0]
	if it.UnitPrice != 1000 || it.Quantity != 1 || it.Title != "Zapatilla p1" {
		t.Fatalf("item = %+v, want the stored order line", it)
	}
}

func TestPreference_ValidationBeforeConfiguration(t *testing.T) {
	uc := NewPreferenceUsecase(nil, nil, "", "")
	ctx := context.Background()

	if _, err := uc.Create(ctx, PreferenceInput{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty payload err = %v, want ErrInvalidArgument", err)
	}
	valid := PreferenceInput{OrderID: "o", UserID: "u", Items: []PreferenceItemInput{{Title: "x", Quantity: 1, UnitPrice: 1}}, Total: 1}
	if _, err := uc.Create(ctx, valid); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("unconfigured err = %v, want ErrNotConfigured", err)
	}
}

func TestPreference_UpstreamErrorPassesThrough(t *testing.T) {
	gw := &fakeGateway{err: &UpstreamError{Provider: "mercadopago", StatusCode: 400, Message: "invalid items"}}
	uc := NewPreferenceUsecase(gw, nil, "", "")
	_, err := uc.Create(context.Background(), PreferenceInput{
		OrderID: "o", UserID: "u", Items: []PreferenceItemInput{{Title: "x", Quantity: 1, UnitPrice: 1}}, Total: 1,
	})
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != 400 || !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want UpstreamError 400", err)
	}
}
