// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

// Event types published on the order exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
	EventPaymentReconciled  = "payment.reconciled"
)

type OrderUsecase struct {
	orders   orderdom.Repository
	carts    *CartUsecase
	stock    paymentdom.StockApplier
	notifier *NotificationUsecase
	events   EventPublisher
	clock    Clock
}

func NewOrderUsecase(orders orderdom.Repository, carts *CartUsecase, stock paymentdom.StockApplier) *OrderUsecase {
	return &OrderUsecase{
		orders: orders,
		carts:  carts,
		stock:  stock,
		events: NopPublisher,
		clock:  systemClock{},
	}
}

func (uc *OrderUsecase) WithNotifier(n *NotificationUsecase) *OrderUsecase {
	uc.notifier = n
	return uc
}

func (uc *OrderUsecase) WithEvents(p EventPublisher) *OrderUsecase {
	uc.events = orNopPublisher(p)
	return uc
}

func (uc *OrderUsecase) WithClock(c Clock) *OrderUsecase {
	uc.clock = orSystemClock(c)
	return uc
}

type CreateOrderInput struct {
	UserID          string
	UserEmail       string
	UserName        string
	ShippingAddress orderdom.ShippingAddress
	Checkout        orderdom.Checkout
}

type CreateOrderResult struct {
	Order *orderdom.Order `json:"order"`
	// WhatsAppURL is a pre-filled chat link for manual (whatsapp) checkout.
	WhatsAppURL   string `json:"whatsappUrl,omitempty"`
	AdminNotified bool   `json:"adminNotified,omitempty"`
}

// Create snapshots the caller's current cart into a new order.
func (uc *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if uc.carts == nil {
		return nil, fmt.Errorf("%w: cart usecase", ErrNotConfigured)
	}
	c, err := uc.carts.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	return uc.CreateFromCart(ctx, in, c)
}

// CreateFromCart copies every cart line into a pending order.
//
// mercadopago checkout leaves cart and stock untouched until payment approval.
// whatsapp checkout has no payment gate: the cart is cleared, stock applied and the
// admin notified right away (all best-effort once the order exists).
func (uc *OrderUsecase) CreateFromCart(ctx context.Context, in CreateOrderInput, c *cartdom.Cart) (*CreateOrderResult, error) {
	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return nil, invalidArg("userId is required")
	}
	if c.IsEmpty() {
		return nil, invalidArg("cart is empty")
	}

	items := make([]orderdom.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, orderdom.Item{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Price:         it.Price,
			Name:          it.Name,
			SelectedColor: it.SelectedColor,
			SelectedSize:  it.SelectedSize,
			ImageURL:      it.ImageURL,
		})
	}

	o, err := orderdom.New(orderdom.NewInput{
		UserID:          uid,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		UserEmail:       in.UserEmail,
		UserName:        in.UserName,
		Checkout:        in.Checkout,
	}, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	created, err := uc.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	log.Printf("[order_usecase] created id=%s uid=%s lines=%d total=%.2f checkout=%s",
		created.ID, maskID(uid), len(created.Items), created.Total, created.Checkout)
	uc.publish(ctx, EventOrderCreated, created)

	res := &CreateOrderResult{Order: created}
	if created.Checkout != orderdom.CheckoutWhatsApp {
		return res, nil
	}

	if err := uc.carts.Clear(ctx, uid); err != nil {
		log.Printf("[order_usecase] WARN: clear cart after manual order failed id=%s err=%v", created.ID, err)
	}
	if uc.stock != nil {
		if _, err := uc.stock.ApplyOrderStock(ctx, created.ID, "whatsapp:"+created.ID); err != nil {
			log.Printf("[order_usecase] WARN: apply stock for manual order failed id=%s err=%v", created.ID, err)
		}
	}

	summary := FormatOrderSummary(created)
	if uc.notifier != nil {
		if err := uc.notifier.NotifyAdmin(ctx, summary); err != nil {
			log.Printf("[order_usecase] WARN: admin WhatsApp notify failed id=%s err=%v", created.ID, err)
		} else {
			res.AdminNotified = true
		}
		res.WhatsAppURL = uc.notifier.ChatLink(summary)
	}
	return res, nil
}

func (uc *OrderUsecase) Get(ctx context.Context, id string) (*orderdom.Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, invalidArg("orderId is required")
	}
	o, err := uc.orders.GetByID(ctx, oid)
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, oid)
	}
	return o, err
}

// GetVisible returns the order when the caller owns it or is an admin.
func (uc *OrderUsecase) GetVisible(ctx context.Context, id, uid string, isAdmin bool) (*orderdom.Order, error) {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != strings.TrimSpace(uid) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, o.ID)
	}
	return o, nil
}

func (uc *OrderUsecase) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, invalidArg("userId is required")
	}
	return uc.orders.ListByUser(ctx, uid)
}

func (uc *OrderUsecase) ListByStatus(ctx context.Context, status string) ([]orderdom.Order, error) {
	st, err := orderdom.ParseStatus(status)
	if err != nil {
		return nil, invalidArg("unknown status %q", status)
	}
	return uc.orders.ListByStatus(ctx, st)
}

func (uc *OrderUsecase) ListAll(ctx context.Context) ([]orderdom.Order, error) {
	return uc.orders.ListAll(ctx)
}

// UpdateStatus moves an order along the state machine. Re-setting the current status is a no-op.
// An order whose stored status is not recognized accepts any target.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id, status string) (*orderdom.Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, invalidArg("orderId is required")
	}
	to, err := orderdom.ParseStatus(status)
	if err != nil {
		return nil, invalidArg("unknown status %q", status)
	}

	var from orderdom.Status
	updated, err := uc.orders.Update(ctx, oid, func(cur *orderdom.Order) (*orderdom.Patch, error) {
		from = cur.Status
		if cur.Status == to {
			return nil, nil
		}
		if !cur.Status.Known() {
			// unreadable stored status; an admin may set it explicitly
			log.Printf("[order_usecase] WARN: repairing unknown status id=%s stored=%q -> %s", oid, cur.Status, to)
			return &orderdom.Patch{Status: orderdom.StatusPtr(to)}, nil
		}
		if !orderdom.CanTransition(cur.Status, to) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, to)
		}
		return &orderdom.Patch{Status: orderdom.StatusPtr(to)}, nil
	})
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, oid)
	}
	if err != nil {
		return nil, err
	}

	if from != to {
		log.Printf("[order_usecase] status id=%s %s -> %s", oid, from, to)
		uc.publish(ctx, EventOrderStatusChanged, map[string]any{"orderId": oid, "from": from, "to": to})
	}
	return updated, nil
}

func (uc *OrderUsecase) Delete(ctx context.Context, id string) error {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return invalidArg("orderId is required")
	}
	err := uc.orders.Delete(ctx, oid)
	if errors.Is(err, orderdom.ErrNotFound) {
		return fmt.Errorf("%w: order %s", ErrNotFound, oid)
	}
	if err == nil {
		uc.publish(ctx, EventOrderDeleted, map[string]any{"orderId": oid})
	}
	return err
}

func (uc *OrderUsecase) publish(ctx context.Context, eventType string, payload any) {
	if err := orNopPublisher(uc.events).Publish(ctx, eventType, payload); err != nil {
		log.Printf("[order_usecase] WARN: publish %s failed: %v", eventType, err)
	}
}
