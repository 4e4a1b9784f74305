package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/HydraRosario/vibeshoes/internal/adapters/out/memory"
	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu       sync.Mutex
	payments map[string]*paymentdom.ProviderPayment
	pref     *paymentdom.Preference
	err      error

	gotPref *paymentdom.PreferenceRequest
	calls   int
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*paymentdom.ProviderPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	p, ok := g.payments[id]
	if !ok {
		return nil, &UpstreamError{Provider: "mercadopago", StatusCode: 404, Message: "payment not found"}
	}
	cp := *p
	return &cp, nil
}

func (g *fakeGateway) CreatePreference(_ context.Context, req paymentdom.PreferenceRequest) (*paymentdom.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.gotPref = &req
	if g.err != nil {
		return nil, g.err
	}
	return g.pref, nil
}

type sentMessage struct{ to, text string }

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (s *fakeSender) SendText(_ context.Context, to, text string) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, sentMessage{to, text})
	return map[string]any{"messages": []any{map[string]any{"id": "wamid.1"}}}, nil
}

type sentMail struct{ to, subject string }

type fakeMailer struct{ sent []sentMail }

func (m *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	m.sent = append(m.sent, sentMail{to, subject})
	return nil
}

type recordingPublisher struct{ events []string }

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.events = append(p.events, eventType)
	return nil
}

// shop wires usecases over a fresh in-memory store.
type shop struct {
	store    *memory.Store
	carts    *CartUsecase
	orders   *OrderUsecase
	webhook  *PaymentWebhookUsecase
	gateway  *fakeGateway
	mailer   *fakeMailer
	sender   *fakeSender
	notifier *NotificationUsecase
	events   *recordingPublisher
}

func newShop(t *testing.T) *shop {
	t.Helper()
	st := memory.NewStore()
	gw := &fakeGateway{payments: map[string]*paymentdom.ProviderPayment{}}
	mailer := &fakeMailer{}
	sender := &fakeSender{}
	events := &recordingPublisher{}
	notifier := NewNotificationUsecase(sender, mailer, "+54 9 11 5555-0000")

	carts := NewCartUsecaseWithClock(st.Carts(), fixedClock{testNow}).WithCatalog(st.Products())
	orders := NewOrderUsecase(st.Orders(), carts, st.Orders()).
		WithNotifier(notifier).
		WithEvents(events).
		WithClock(fixedClock{testNow})
	webhook := NewPaymentWebhookUsecase(gw, st.Orders(), st.Orders(), carts).
		WithNotifier(notifier).
		WithEvents(events)

	return &shop{
		store: st, carts: carts, orders: orders, webhook: webhook,
		gateway: gw, mailer: mailer, sender: sender, notifier: notifier, events: events,
	}
}

func (s *shop) seedProduct(t *testing.T, id string, price float64, color string, stock int) {
	t.Helper()
	_, err := s.store.Products().Create(context.Background(), &productdom.Product{
		ID:    id,
		Name:  "Zapatilla " + id,
		Price: price,
		Variations: []productdom.Variation{{
			Color:  color,
			Sizes:  []common.Size{"40", "41", "42"},
			Images: []string{"https://img/" + id + ".jpg"},
			Stock:  stock,
		}},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func (s *shop) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := s.store.Products().GetByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.Variations[0].Stock
}

func (s *shop) storedCart(t *testing.T, uid string) *cartdom.Cart {
	t.Helper()
	c, err := s.store.Carts().GetByUserID(context.Background(), uid)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	return c
}

var testAddress = orderdom.ShippingAddress{Street: "Av. Siempre Viva 742", City: "Rosario", State: "Santa Fe", ZipCode: "2000"}
