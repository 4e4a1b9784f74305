// internal/application/usecase/payment_webhook_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

// PaymentWebhookUsecase reconciles provider payment notifications with orders.
//
// Steps (each safe to re-run on redelivery):
//  1. persist mapped status + paymentId + raw paymentStatus (authoritative); an approval
//     whose transaction amount is below the order total leaves the status unchanged
//  2. approved only: decrement variation stock once per order (transactional, marker-gated)
//  3. first application only: clear the buyer's cart, mail confirmation, publish event (best-effort)
type PaymentWebhookUsecase struct {
	gateway  PaymentGateway
	orders   orderdom.Repository
	stock    paymentdom.StockApplier
	carts    *CartUsecase
	notifier *NotificationUsecase
	events   EventPublisher
}

func NewPaymentWebhookUsecase(
	gateway PaymentGateway,
	orders orderdom.Repository,
	stock paymentdom.StockApplier,
	carts *CartUsecase,
) *PaymentWebhookUsecase {
	return &PaymentWebhookUsecase{
		gateway: gateway,
		orders:  orders,
		stock:   stock,
		carts:   carts,
		events:  NopPublisher,
	}
}

func (uc *PaymentWebhookUsecase) WithNotifier(n *NotificationUsecase) *PaymentWebhookUsecase {
	uc.notifier = n
	return uc
}

func (uc *PaymentWebhookUsecase) WithEvents(p EventPublisher) *PaymentWebhookUsecase {
	uc.events = orNopPublisher(p)
	return uc
}

// Configured reports whether the payment provider credential is present.
func (uc *PaymentWebhookUsecase) Configured() bool {
	return uc != nil && uc.gateway != nil
}

type WebhookResult struct {
	Ignored       bool                         `json:"ignored,omitempty"`
	OrderID       string                       `json:"orderId,omitempty"`
	PaymentID     string                       `json:"paymentId,omitempty"`
	PaymentStatus string                       `json:"paymentStatus,omitempty"`
	OrderStatus   orderdom.Status              `json:"status,omitempty"`
	StockApplied  bool                         `json:"stockApplied,omitempty"`
	Stock         []paymentdom.StockLineResult `json:"stock,omitempty"`
	CartCleared   bool                         `json:"cartCleared,omitempty"`
	// Underpaid is set when an approved payment charged less than the order total.
	Underpaid     bool                         `json:"underpaid,omitempty"`
}

func (uc *PaymentWebhookUsecase) Handle(ctx context.Context, n paymentdom.Notification) (*WebhookResult, error) {
	if !uc.Configured() {
		return nil, fmt.Errorf("%w: Mercado Pago", ErrNotConfigured)
	}
	if !n.IsPayment() {
		return &WebhookResult{Ignored: true}, nil
	}

	paymentID := strings.TrimSpace(n.PaymentID)
	pay, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if pay.ID == "" {
		pay.ID = paymentID
	}

	orderID := strings.TrimSpace(pay.ExternalReference)
	if orderID == "" {
		return nil, invalidArg("No external_reference")
	}

	mapped := paymentdom.MapStatus(pay.Status)
	rawStatus := strings.TrimSpace(pay.Status)

	// 1) status + payment fields
	underpaid := false
	updated, err := uc.orders.Update(ctx, orderID, func(cur *orderdom.Order) (*orderdom.Patch, error) {
		underpaid = false
		target := mapped
		if mapped == orderdom.StatusAccepted && !pay.Covers(cur.Total) {
			underpaid = true
			target = cur.Status
			log.Printf("[payment_webhook] WARN: underpaid order=%s payment=%s amount=%.2f total=%.2f (status kept)",
				cur.ID, pay.ID, pay.TransactionAmount, cur.Total)
		}
		patch := &orderdom.Patch{}
		if cur.PaymentID != pay.ID {
			patch.PaymentID = orderdom.StrPtr(pay.ID)
		}
		if cur.PaymentStatus != rawStatus {
			patch.PaymentStatus = orderdom.StrPtr(rawStatus)
		}
		if cur.Status != target {
			if orderdom.CanTransition(cur.Status, target) {
				patch.Status = orderdom.StatusPtr(target)
			} else {
				log.Printf("[payment_webhook] keep status order=%s current=%s provider=%s", cur.ID, cur.Status, rawStatus)
			}
		}
		if patch.IsEmpty() {
			return nil, nil
		}
		return patch, nil
	})
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payment_webhook: persist status: %w", err)
	}

	res := &WebhookResult{
		OrderID:       orderID,
		PaymentID:     pay.ID,
		PaymentStatus: rawStatus,
		OrderStatus:   updated.Status,
		Underpaid:     underpaid,
	}
	log.Printf("[payment_webhook] order=%s payment=%s provider=%s status=%s", orderID, pay.ID, rawStatus, updated.Status)

	if !pay.IsApproved() || underpaid || updated.Status != orderdom.StatusAccepted {
		return res, nil
	}

	// 2) stock, once per order
	if uc.stock == nil {
		return nil, fmt.Errorf("%w: stock applier", ErrNotConfigured)
	}
	sr, err := uc.stock.ApplyOrderStock(ctx, orderID, "payment:"+pay.ID)
	if err != nil {
		return nil, fmt.Errorf("payment_webhook: apply stock: %w", err)
	}
	res.StockApplied = sr.Applied
	res.Stock = sr.Lines
	if !sr.Applied {
		log.Printf("[payment_webhook] stock already applied order=%s (duplicate delivery)", orderID)
		return res, nil
	}

	// 3) best-effort follow-ups
	if uc.carts != nil {
		if err := uc.carts.Clear(ctx, updated.UserID); err != nil {
			log.Printf("[payment_webhook] WARN: clear cart failed order=%s uid=%s err=%v", orderID, maskID(updated.UserID), err)
		} else {
			res.CartCleared = true
		}
	}
	if uc.notifier != nil && updated.UserEmail != "" {
		if err := uc.notifier.SendOrderConfirmation(ctx, updated); err != nil {
			log.Printf("[payment_webhook] WARN: confirmation mail failed order=%s err=%v", orderID, err)
		}
	}
	if err := orNopPublisher(uc.events).Publish(ctx, EventPaymentReconciled, res); err != nil {
		log.Printf("[payment_webhook] WARN: publish %s failed: %v", EventPaymentReconciled, err)
	}
	return res, nil
}
