// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

// OrderRepositoryFS implements order.Repository and payment.StockApplier.
//
// Collection: orders (auto id). Stock lives on products/{id}.variations[].stock.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

var (
	_ orderdom.Repository     = (*OrderRepositoryFS)(nil)
	_ paymentdom.StockApplier = (*OrderRepositoryFS)(nil)
)

func (r *OrderRepositoryFS) ordersCol() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) productsCol() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o *orderdom.Order) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return nil, orderdom.ErrInvalid
	}
	ref := r.ordersCol().NewDoc()
	if id := strings.TrimSpace(o.ID); id != "" {
		ref = r.ordersCol().Doc(id)
	}
	if _, err := ref.Create(ctx, orderToDoc(o)); err != nil {
		return nil, err
	}
	cp := *o
	cp.ID = ref.ID
	return &cp, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, orderdom.ErrNotFound
	}
	snap, err := r.ordersCol().Doc(oid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, orderdom.ErrNotFound
		}
		return nil, err
	}
	return orderFromSnapshot(oid, snap.Data()), nil
}

func (r *OrderRepositoryFS) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	return r.query(ctx, r.ordersCol().Where("userId", "==", strings.TrimSpace(userID)))
}

// ListByStatus matches the canonical value and the legacy spellings older clients stored.
func (r *OrderRepositoryFS) ListByStatus(ctx context.Context, st orderdom.Status) ([]orderdom.Order, error) {
	return r.query(ctx, r.ordersCol().Where("status", "in", statusFilterValues(st)))
}

func (r *OrderRepositoryFS) ListAll(ctx context.Context) ([]orderdom.Order, error) {
	return r.query(ctx, r.ordersCol().Query)
}

// query sorts by createdAt desc in memory so equality filters need no composite index.
func (r *OrderRepositoryFS) query(ctx context.Context, q firestore.Query) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	it := q.Documents(ctx)
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *orderFromSnapshot(doc.Ref.ID, doc.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepositoryFS) Update(ctx context.Context, id string, fn orderdom.MutateFunc) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, orderdom.ErrNotFound
	}
	ref := r.ordersCol().Doc(oid)

	var result *orderdom.Order
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return orderdom.ErrNotFound
			}
			return err
		}
		cur := orderFromSnapshot(oid, snap.Data())
		patch, err := fn(cur)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			result = cur
			return nil
		}
		now := time.Now().UTC()
		cur.Apply(patch, now)
		result = cur
		return tx.Update(ref, patchUpdates(patch, now))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *OrderRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.ErrNotFound
	}
	ref := r.ordersCol().Doc(oid)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return orderdom.ErrNotFound
		}
		return err
	}
	_, err := ref.Delete(ctx)
	return err
}

// ApplyOrderStock reads the order and every referenced product, decrements
// variation stock (floored at zero) and stamps stockAppliedBy in one transaction.
// Firestore requires all reads before writes, so products are fetched with GetAll first.
func (r *OrderRepositoryFS) ApplyOrderStock(ctx context.Context, orderID, marker string) (paymentdom.StockResult, error) {
	if r == nil || r.Client == nil {
		return paymentdom.StockResult{}, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(orderID)
	orderRef := r.ordersCol().Doc(oid)

	var res paymentdom.StockResult
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// the callback may run more than once
		res = paymentdom.StockResult{}

		snap, err := tx.Get(orderRef)
		if err != nil {
			if isNotFound(err) {
				return orderdom.ErrNotFound
			}
			return err
		}
		o := orderFromSnapshot(oid, snap.Data())
		if strings.TrimSpace(o.StockAppliedBy) != "" {
			return nil
		}

		lines := o.StockLines()
		refs := make([]*firestore.DocumentRef, 0, len(lines))
		seen := map[string]bool{}
		for _, l := range lines {
			if !seen[l.ProductID] {
				seen[l.ProductID] = true
				refs = append(refs, r.productsCol().Doc(l.ProductID))
			}
		}
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		products := map[string]map[string]any{}
		for _, s := range snaps {
			if s != nil && s.Exists() {
				products[s.Ref.ID] = s.Data()
			}
		}

		now := time.Now().UTC()
		lineResults, parsed, touched, err := decrementLines(lines, products)
		if err != nil {
			return err
		}
		res.Lines = lineResults

		for pid := range touched {
			if err := tx.Update(r.productsCol().Doc(pid), []firestore.Update{
				{Path: "variations", Value: variationsToDoc(parsed[pid].Variations)},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		res.Applied = true
		return tx.Update(orderRef, []firestore.Update{
			{Path: "stockAppliedBy", Value: strings.TrimSpace(marker)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return paymentdom.StockResult{}, err
	}
	if res.Applied {
		log.Printf("[order_repository_fs] stock applied order=%s marker=%s lines=%d", maskShort(oid), marker, len(res.Lines))
	}
	return res, nil
}

// decrementLines applies lines to the raw product documents. A missing product or
// color is a skipped line; any other decrement error aborts the whole application.
func decrementLines(lines []orderdom.StockLine, products map[string]map[string]any) (
	[]paymentdom.StockLineResult, map[string]*productdom.Product, map[string]bool, error,
) {
	out := make([]paymentdom.StockLineResult, 0, len(lines))
	parsed := map[string]*productdom.Product{}
	touched := map[string]bool{}
	for _, l := range lines {
		lr := paymentdom.StockLineResult{ProductID: l.ProductID, Color: l.Color, Quantity: l.Quantity}
		raw, ok := products[l.ProductID]
		if !ok {
			lr.Skipped = true
			out = append(out, lr)
			continue
		}
		p := parsed[l.ProductID]
		if p == nil {
			p = productFromSnapshot(l.ProductID, raw)
			parsed[l.ProductID] = p
		}
		before, after, err := p.DecrementStock(l.Color, l.Quantity)
		if errors.Is(err, productdom.ErrVariationNotFound) {
			lr.Skipped = true
			out = append(out, lr)
			continue
		}
		if err != nil {
			return nil, nil, nil, err
		}
		lr.Before, lr.After = before, after
		out = append(out, lr)
		touched[l.ProductID] = true
	}
	return out, parsed, touched, nil
}
