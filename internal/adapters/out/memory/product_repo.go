// internal/adapters/out/memory/product_repo.go
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

type ProductRepo struct{ s *Store }

var _ productdom.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) GetByID(_ context.Context, id string) (*productdom.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[strings.TrimSpace(id)]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

// List returns matching products, newest first.
func (r *ProductRepo) List(_ context.Context, f productdom.Filter) ([]productdom.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]productdom.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.Match(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ProductRepo) Create(_ context.Context, p *productdom.Product) (*productdom.Product, error) {
	if p == nil {
		return nil, productdom.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := cloneProduct(*p)
	if strings.TrimSpace(cp.ID) == "" {
		cp.ID = uuid.NewString()
	}
	r.s.products[cp.ID] = cp
	out := cloneProduct(cp)
	return &out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *productdom.Product) error {
	if p == nil {
		return productdom.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; !ok {
		return productdom.ErrNotFound
	}
	r.s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id = strings.TrimSpace(id)
	if _, ok := r.s.products[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}
