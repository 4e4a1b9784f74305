package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier struct{ tok *VerifiedToken }

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*VerifiedToken, error) {
	if idToken != "good" {
		return nil, errors.New("invalid")
	}
	return s.tok, nil
}

type stubAdmins map[string]bool

func (s stubAdmins) IsAdmin(_ context.Context, uid string) (bool, error) {
	if uid == "broken" {
		return false, errors.New("store down")
	}
	return s[uid], nil
}

func TestUserAuthMiddleware(t *testing.T) {
	m := &UserAuthMiddleware{Verifier: stubVerifier{tok: &VerifiedToken{
		UID:    "u1",
		Claims: map[string]any{"email": " u1@example.com ", "name": "Uno", "admin": true},
	}}}

	var gotUID, gotEmail, gotName string
	var gotAdmin bool
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotEmail, _ = CurrentUserUIDAndEmail(r)
		gotName = CurrentUserName(r)
		gotAdmin = CurrentUserAdminClaim(r)
	}))

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer ", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("Authorization %q = %d, want %d", tc.header, rec.Code, tc.want)
		}
	}
	if gotUID != "u1" || gotEmail != "u1@example.com" || gotName != "Uno" || !gotAdmin {
		t.Errorf("context = %q %q %q %v", gotUID, gotEmail, gotName, gotAdmin)
	}
}

func TestRequireAdmin(t *testing.T) {
	admins := stubAdmins{"boss": true}
	h := RequireAdmin(admins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	cases := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"anonymous", context.Background(), http.StatusUnauthorized},
		{"plain user", WithUser(context.Background(), "pleb", "", "", false), http.StatusForbidden},
		{"stored flag", WithUser(context.Background(), "boss", "", "", false), http.StatusTeapot},
		{"claim", WithUser(context.Background(), "pleb", "", "", true), http.StatusTeapot},
		{"lookup error denies", WithUser(context.Background(), "broken", "", "", false), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tc.ctx))
			if rec.Code != tc.want {
				t.Errorf("code = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRouteLabel(t *testing.T) {
	cases := map[string]string{
		"/api/products":                "/api/products",
		"/api/products/abc123":         "/api/products/{id}",
		"/api/products/abc123/reviews": "/api/products/{id}/reviews",
		"/api/admin/orders/o1/status":  "/api/admin/orders/{id}/status",
		"/api/webhooks/mercadopago":    "/api/webhooks/mercadopago",
		"/healthz":                     "/healthz",
		"/favicon.ico":                 "other",
	}
	for in, want := range cases {
		if got := RouteLabel(in); got != want {
			t.Errorf("RouteLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestIDEchoesInbound(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "rid-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "rid-42" || rec.Header().Get(RequestIDHeader) != "rid-42" {
		t.Errorf("seen=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
}
