package httpin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	shopHandler "github.com/HydraRosario/vibeshoes/internal/adapters/in/http/handler"
	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/webhook"
	"github.com/HydraRosario/vibeshoes/internal/adapters/out/memory"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"
)

type fakeVerifier map[string]middleware.VerifiedToken

func (f fakeVerifier) VerifyIDToken(_ context.Context, tok string) (*middleware.VerifiedToken, error) {
	v, ok := f[tok]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &v, nil
}

type fakeGateway struct {
	mu       sync.Mutex
	payments map[string]*paymentdom.ProviderPayment
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*paymentdom.ProviderPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[id]
	if !ok {
		return nil, &usecase.UpstreamError{Provider: "mercadopago", StatusCode: 404, Message: "not found", Payload: map[string]any{"message": "not found"}}
	}
	cp := *p
	return &cp, nil
}

func (g *fakeGateway) CreatePreference(_ context.Context, _ paymentdom.PreferenceRequest) (*paymentdom.Preference, error) {
	return &paymentdom.Preference{ID: "pref-1", InitPoint: "https://mp/init/pref-1"}, nil
}

type fakeSender struct{ sent []string }

func (s *fakeSender) SendText(_ context.Context, to, text string) (any, error) {
	s.sent = append(s.sent, to)
	return map[string]any{"messages": []any{map[string]any{"id": "wamid.1"}}}, nil
}

type testApp struct {
	store   *memory.Store
	gateway *fakeGateway
	sender  *fakeSender
	h       http.Handler
}

func newTestApp(t *testing.T, withWhatsApp bool) *testApp {
	t.Helper()
	st := memory.NewStore()
	gw := &fakeGateway{payments: map[string]*paymentdom.ProviderPayment{}}
	sender := &fakeSender{}

	var notifier *usecase.NotificationUsecase
	if withWhatsApp {
		notifier = usecase.NewNotificationUsecase(sender, nil, "5491155550000")
	} else {
		notifier = usecase.NewNotificationUsecase(nil, nil, "")
	}

	users := usecase.NewUserUsecase(st.Users(), []string{"owner@vibeshoes.test"})
	carts := usecase.NewCartUsecase(st.Carts()).WithCatalog(st.Products())
	orders := usecase.NewOrderUsecase(st.Orders(), carts, st.Orders()).WithNotifier(notifier)
	products := usecase.NewProductUsecase(st.Products())
	reviews := usecase.NewReviewUsecase(st.Reviews(), st.Orders())
	prefs := usecase.NewPreferenceUsecase(gw, st.Orders(), "https://shop.test", "ARS")
	hook := usecase.NewPaymentWebhookUsecase(gw, st.Orders(), st.Orders(), carts)

	h := NewRouter(RouterDeps{
		Product:      shopHandler.NewProductHandler(products),
		AdminProduct: shopHandler.NewAdminProductHandler(products),
		Category:     shopHandler.NewCategoryHandler(usecase.NewCategoryUsecase(st.Categories())),
		Review:       shopHandler.NewReviewHandler(reviews, users),
		Profile:      shopHandler.NewProfileHandler(users),
		Cart:         shopHandler.NewCartHandler(carts),
		Order:        shopHandler.NewOrderHandler(orders, users),
		AdminOrder:   shopHandler.NewAdminOrderHandler(orders),
		Image:        shopHandler.NewImageHandler(usecase.NewImageUsecase(nil)),
		Payment:      shopHandler.NewPaymentHandler(prefs),
		WhatsApp:     shopHandler.NewWhatsAppHandler(notifier),
		Webhook:      webhook.NewMercadoPagoHandler(hook, ""),
		Auth: &middleware.UserAuthMiddleware{Verifier: fakeVerifier{
			"tok-alice": {UID: "alice", Claims: map[string]any{"email": "alice@example.com", "name": "Alice"}},
			"tok-bob":   {UID: "bob", Claims: map[string]any{"email": "bob@example.com"}},
			"tok-root":  {UID: "root", Claims: map[string]any{"email": "root@example.com", "admin": true}},
		}},
		Admins: users,
	})

	_, err := st.Products().Create(context.Background(), &productdom.Product{
		ID:    "p1",
		Name:  "Runner",
		Price: 1000,
		Variations: []productdom.Variation{{
			Color: "negro", Sizes: []common.Size{"40", "41"}, Images: []string{"https://img/p1.jpg"}, Stock: 5,
		}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &testApp{store: st, gateway: gw, sender: sender, h: h}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (a *testApp) stock(t *testing.T) int {
	t.Helper()
	p, err := a.store.Products().GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	return p.Variations[0].Stock
}

var address = map[string]string{"street": "Av. Pellegrini 1500", "city": "Rosario", "state": "Santa Fe", "zipCode": "2000"}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, false)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/me/profile", "/api/products/p1/reviews/me"} {
		if rec := app.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}
	if rec := app.do(t, http.MethodGet, "/api/cart", "tok-unknown", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/api/cart", "tok-alice", nil); rec.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rec.Code)
	}
}

func TestCartRoutes(t *testing.T) {
	app := newTestApp(t, false)

	item := map[string]any{"productId": "p1", "quantity": 2, "selectedColor": "negro", "selectedSize": 41}
	rec := app.do(t, http.MethodPost, "/api/cart/items", "tok-alice", item)
	if rec.Code != http.StatusOK {
		t.Fatalf("add = %d %s", rec.Code, rec.Body.String())
	}
	cart := decode[map[string]any](t, rec)
	if cart["total"].(float64) != 2000 {
		t.Errorf("total = %v, want 2000", cart["total"])
	}

	rec = app.do(t, http.MethodPut, "/api/cart/items", "tok-alice",
		map[string]any{"productId": "p1", "quantity": 3, "selectedColor": "negro", "selectedSize": "41"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set qty = %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[map[string]any](t, rec)["total"].(float64); got != 3000 {
		t.Errorf("total after set = %v, want 3000", got)
	}

	// bob sees only his own (empty) cart
	rec = app.do(t, http.MethodGet, "/api/cart", "tok-bob", nil)
	if items := decode[map[string]any](t, rec)["items"].([]any); len(items) != 0 {
		t.Errorf("bob items = %v", items)
	}

	rec = app.do(t, http.MethodDelete, "/api/cart/items?productId=p1", "tok-alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove = %d %s", rec.Code, rec.Body.String())
	}
	if items := decode[map[string]any](t, rec)["items"].([]any); len(items) != 0 {
		t.Errorf("items after remove = %v", items)
	}

	if rec := app.do(t, http.MethodPost, "/api/cart/items", "tok-alice", map[string]any{"productId": "p1", "quantity": 0}); rec.Code != http.StatusBadRequest {
		t.Errorf("qty 0 = %d, want 400", rec.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t, false)

	if rec := app.do(t, http.MethodPost, "/api/admin/categories", "tok-alice", map[string]string{"name": "Running"}); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin = %d, want 403", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/api/admin/categories", "tok-root", map[string]string{"name": "Running"}); rec.Code != http.StatusCreated {
		t.Fatalf("claim admin = %d %s", rec.Code, rec.Body.String())
	}
	if rec := app.do(t, http.MethodPost, "/api/admin/categories", "tok-root", map[string]string{"name": "running"}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate = %d, want 409", rec.Code)
	}

	// stored flag grants admin too
	if err := app.store.Users().Save(context.Background(), &userdom.User{ID: "bob", Email: "bob@example.com", IsAdmin: true}); err != nil {
		t.Fatal(err)
	}
	if rec := app.do(t, http.MethodPost, "/api/admin/categories", "tok-bob", map[string]string{"name": "Urbano"}); rec.Code != http.StatusCreated {
		t.Fatalf("stored admin = %d %s", rec.Code, rec.Body.String())
	}

	rec := app.do(t, http.MethodGet, "/api/categories", "", nil)
	names := decode[[]string](t, rec)
	if strings.Join(names, ",") != "Running,Urbano" {
		t.Errorf("categories = %v", names)
	}

	if rec := app.do(t, http.MethodDelete, "/api/admin/categories/Urbano", "tok-root", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/api/admin/images", "tok-root", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("image without multipart = %d, want 400", rec.Code)
	}
}

func TestCheckoutThenWebhookApprovesOnce(t *testing.T) {
	app := newTestApp(t, false)

	app.do(t, http.MethodPost, "/api/cart/items", "tok-alice",
		map[string]any{"productId": "p1", "quantity": 2, "selectedColor": "negro", "selectedSize": "41"})

	rec := app.do(t, http.MethodPost, "/api/orders", "tok-alice", map[string]any{"shippingAddress": address})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order = %d %s", rec.Code, rec.Body.String())
	}
	res := decode[struct {
		Order orderdom.Order `json:"order"`
	}](t, rec)
	oid := res.Order.ID
	if oid == "" || res.Order.Status != orderdom.StatusPending || res.Order.Total != 2000 {
		t.Fatalf("order = %+v", res.Order)
	}
	if got := app.stock(t); got != 5 {
		t.Fatalf("stock before payment = %d, want 5", got)
	}

	rec = app.do(t, http.MethodPost, "/api/payments/create-preference", "tok-alice", map[string]any{
		"orderId": oid,
		"items":   []map[string]any{{"title": "Runner", "quantity": 2, "unit_price": 1000}},
		"total":   2000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create preference = %d %s", rec.Code, rec.Body.String())
	}
	if pref := decode[map[string]any](t, rec); pref["init_point"] != "https://mp/init/pref-1" || pref["orderId"] != oid {
		t.Errorf("preference = %v", pref)
	}

	app.gateway.payments["pay-1"] = &paymentdom.ProviderPayment{ID: "pay-1", Status: "approved", ExternalReference: oid, TransactionAmount: 2000}
	for i := 0; i < 2; i++ {
		rec = app.do(t, http.MethodPost, "/api/webhooks/mercadopago?type=payment&data.id=pay-1", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("webhook #%d = %d %s", i, rec.Code, rec.Body.String())
		}
	}
	if got := app.stock(t); got != 3 {
		t.Errorf("stock after approval = %d, want 3", got)
	}

	if rec := app.do(t, http.MethodGet, "/api/orders/"+oid, "tok-bob", nil); rec.Code != http.StatusNotFound {
		t.Errorf("other user's order = %d, want 404", rec.Code)
	}
	rec = app.do(t, http.MethodGet, "/api/orders/"+oid, "tok-alice", nil)
	o := decode[orderdom.Order](t, rec)
	if o.Status != orderdom.StatusAccepted || o.PaymentID != "pay-1" || o.PreferenceID != "pref-1" {
		t.Errorf("order after webhook = %+v", o)
	}

	rec = app.do(t, http.MethodGet, "/api/cart", "tok-alice", nil)
	if items := decode[map[string]any](t, rec)["items"].([]any); len(items) != 0 {
		t.Errorf("cart not cleared: %v", items)
	}

	rec = app.do(t, http.MethodPatch, "/api/admin/orders/"+oid+"/status", "tok-root", map[string]string{"status": "enviado"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ship = %d %s", rec.Code, rec.Body.String())
	}
	rec = app.do(t, http.MethodPatch, "/api/admin/orders/"+oid+"/status", "tok-root", map[string]string{"status": "pendiente"})
	if rec.Code != http.StatusConflict {
		t.Errorf("illegal transition = %d, want 409", rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/reviews", "tok-alice", map[string]any{"productId": "p1", "orderId": oid, "rating": 5, "comment": "Muy cómodas"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("review = %d %s", rec.Code, rec.Body.String())
	}
	rec = app.do(t, http.MethodPost, "/api/reviews", "tok-alice", map[string]any{"productId": "p1", "orderId": oid, "rating": 4, "comment": "otra"})
	if rec.Code != http.StatusConflict {
		t.Errorf("second review = %d, want 409", rec.Code)
	}
	rec = app.do(t, http.MethodGet, "/api/products/p1/reviews", "", nil)
	if list := decode[[]map[string]any](t, rec); len(list) != 1 || list[0]["userName"] != "Alice" {
		t.Errorf("reviews = %v", list)
	}
	if rec := app.do(t, http.MethodGet, "/api/products/p1/reviews/me", "tok-alice", nil); rec.Code != http.StatusOK {
		t.Errorf("my review = %d", rec.Code)
	}
}

func TestWebhookErrorCodes(t *testing.T) {
	app := newTestApp(t, false)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"ignored topic", "/api/webhooks/mercadopago?type=merchant_order&data.id=1", http.StatusOK},
		{"missing id", "/api/webhooks/mercadopago?type=payment", http.StatusOK},
		{"unknown payment", "/api/webhooks/mercadopago?type=payment&data.id=nope", http.StatusBadGateway},
		{"no external ref", "/api/webhooks/mercadopago?topic=payment&id=noref", http.StatusBadRequest},
		{"order missing", "/api/webhooks/mercadopago?type=payment&data.id=ghost", http.StatusNotFound},
	}
	app.gateway.payments["noref"] = &paymentdom.ProviderPayment{ID: "noref", Status: "approved"}
	app.gateway.payments["ghost"] = &paymentdom.ProviderPayment{ID: "ghost", Status: "approved", ExternalReference: "missing-order"}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := app.do(t, http.MethodPost, tc.path, "", nil); rec.Code != tc.want {
				t.Errorf("code = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestWhatsAppRoute(t *testing.T) {
	off := newTestApp(t, false)
	if rec := off.do(t, http.MethodPost, "/api/whatsapp", "tok-alice", map[string]string{"to": "", "text": "hola"}); rec.Code != http.StatusBadRequest {
		t.Errorf("missing to = %d, want 400", rec.Code)
	}
	rec := off.do(t, http.MethodPost, "/api/whatsapp", "tok-alice", map[string]string{"to": "+54 9 341 000", "text": "hola"})
	if rec.Code != http.StatusNotImplemented || decode[map[string]string](t, rec)["error"] != "WhatsApp Cloud API not configured" {
		t.Errorf("unconfigured = %d %s", rec.Code, rec.Body.String())
	}

	on := newTestApp(t, true)
	rec = on.do(t, http.MethodPost, "/api/whatsapp", "tok-alice", map[string]string{"to": "+54 9 341 000", "text": "hola"})
	if rec.Code != http.StatusOK || decode[map[string]any](t, rec)["ok"] != true {
		t.Fatalf("send = %d %s", rec.Code, rec.Body.String())
	}
	if len(on.sender.sent) != 1 || on.sender.sent[0] != "549341000" {
		t.Errorf("sent = %v", on.sender.sent)
	}
}

func TestWhatsAppCheckoutAppliesStockImmediately(t *testing.T) {
	app := newTestApp(t, true)
	app.do(t, http.MethodPost, "/api/cart/items", "tok-alice",
		map[string]any{"productId": "p1", "quantity": 1, "selectedColor": "negro", "selectedSize": "40"})

	rec := app.do(t, http.MethodPost, "/api/orders", "tok-alice", map[string]any{"shippingAddress": address, "checkout": "whatsapp"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	res := decode[map[string]any](t, rec)
	if link, _ := res["whatsappUrl"].(string); !strings.HasPrefix(link, "https://wa.me/5491155550000?text=") {
		t.Errorf("whatsappUrl = %q", link)
	}
	if got := app.stock(t); got != 4 {
		t.Errorf("stock = %d, want 4", got)
	}
}

func TestPreferenceRejectsForeignUserID(t *testing.T) {
	app := newTestApp(t, false)
	rec := app.do(t, http.MethodPost, "/api/payments/create-preference", "tok-alice", map[string]any{
		"orderId": "o1", "userId": "bob",
		"items": []map[string]any{{"title": "x", "quantity": 1, "unit_price": 1}}, "total": 1,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %d, want 403", rec.Code)
	}
	rec = app.do(t, http.MethodPost, "/api/payments/create-preference", "tok-alice", map[string]any{"orderId": "o1"})
	if rec.Code != http.StatusBadRequest || decode[map[string]string](t, rec)["error"] != "Invalid payload" {
		t.Errorf("invalid payload = %d %s", rec.Code, rec.Body.String())
	}
}

func TestProfileSeedsAdminFromAllowlist(t *testing.T) {
	app := newTestApp(t, false)
	rec := app.do(t, http.MethodPost, "/api/me/profile", "tok-alice", map[string]string{"photoURL": "https://img/a.png"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ensure = %d %s", rec.Code, rec.Body.String())
	}
	u := decode[userdom.User](t, rec)
	if u.ID != "alice" || u.DisplayName != "Alice" || u.IsAdmin {
		t.Errorf("profile = %+v", u)
	}
	if rec := app.do(t, http.MethodGet, "/api/me/profile", "tok-bob", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing profile = %d, want 404", rec.Code)
	}
}

func TestCORSPreflightAndRecover(t *testing.T) {
	app := newTestApp(t, false)
	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	rec := httptest.NewRecorder()
	app.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d origin=%q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	boom := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), "https://shop.test")
	rec = httptest.NewRecorder()
	boom.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic = %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["detail"] != "boom" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://shop.test" {
		t.Error("CORS header lost on panic")
	}
}
