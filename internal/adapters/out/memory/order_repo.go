// internal/adapters/out/memory/order_repo.go
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

type OrderRepo struct{ s *Store }

var (
	_ orderdom.Repository     = (*OrderRepo)(nil)
	_ paymentdom.StockApplier = (*OrderRepo)(nil)
)

func (r *OrderRepo) Create(_ context.Context, o *orderdom.Order) (*orderdom.Order, error) {
	if o == nil {
		return nil, orderdom.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := cloneOrder(*o)
	if strings.TrimSpace(cp.ID) == "" {
		cp.ID = uuid.NewString()
	}
	r.s.orders[cp.ID] = cp
	out := cloneOrder(cp)
	return &out, nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*orderdom.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[strings.TrimSpace(id)]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	return r.list(func(o orderdom.Order) bool { return o.UserID == uid }), nil
}

func (r *OrderRepo) ListByStatus(_ context.Context, st orderdom.Status) ([]orderdom.Order, error) {
	return r.list(func(o orderdom.Order) bool { return o.Status == st }), nil
}

func (r *OrderRepo) ListAll(_ context.Context) ([]orderdom.Order, error) {
	return r.list(func(orderdom.Order) bool { return true }), nil
}

// list returns matches ordered by createdAt desc.
func (r *OrderRepo) list(match func(orderdom.Order) bool) []orderdom.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []orderdom.Order{}
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *OrderRepo) Update(_ context.Context, id string, fn orderdom.MutateFunc) (*orderdom.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	oid := strings.TrimSpace(id)
	cur, ok := r.s.orders[oid]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	view := cloneOrder(cur)
	patch, err := fn(&view)
	if err != nil {
		return nil, err
	}
	if !patch.IsEmpty() {
		cur.Apply(patch, time.Now().UTC())
		r.s.orders[oid] = cur
	}
	out := cloneOrder(cur)
	return &out, nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	oid := strings.TrimSpace(id)
	if _, ok := r.s.orders[oid]; !ok {
		return orderdom.ErrNotFound
	}
	delete(r.s.orders, oid)
	return nil
}

// ApplyOrderStock decrements variation stock for the order under the store lock.
// Missing products or colors are reported as skipped lines.
func (r *OrderRepo) ApplyOrderStock(_ context.Context, orderID, marker string) (paymentdom.StockResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	oid := strings.TrimSpace(orderID)
	o, ok := r.s.orders[oid]
	if !ok {
		return paymentdom.StockResult{}, orderdom.ErrNotFound
	}
	if o.StockAppliedBy != "" {
		return paymentdom.StockResult{Applied: false}, nil
	}

	res := paymentdom.StockResult{Applied: true}
	for _, line := range o.StockLines() {
		lr := paymentdom.StockLineResult{ProductID: line.ProductID, Color: line.Color, Quantity: line.Quantity}
		p, ok := r.s.products[line.ProductID]
		if !ok {
			lr.Skipped = true
			res.Lines = append(res.Lines, lr)
			continue
		}
		p = cloneProduct(p)
		before, after, err := p.DecrementStock(line.Color, line.Quantity)
		if errors.Is(err, productdom.ErrVariationNotFound) {
			lr.Skipped = true
			res.Lines = append(res.Lines, lr)
			continue
		}
		if err != nil {
			return paymentdom.StockResult{}, err
		}
		p.UpdatedAt = time.Now().UTC()
		r.s.products[p.ID] = p
		lr.Before, lr.After = before, after
		res.Lines = append(res.Lines, lr)
	}

	o.StockAppliedBy = strings.TrimSpace(marker)
	o.UpdatedAt = time.Now().UTC()
	r.s.orders[oid] = o
	return res, nil
}
