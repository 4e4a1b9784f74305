// internal/domain/product/repository_port.go
package product

import (
	"context"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

// Filter narrows product listings. Zero values match everything.
type Filter struct {
	Category string
	OnSale   *bool
	Size     common.Size
}

func (f Filter) Match(p Product) bool {
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(p.Category, c) {
		return false
	}
	if f.OnSale != nil && p.OnSale != *f.OnSale {
		return false
	}
	if !f.Size.IsZero() && !p.HasSize(f.Size) {
		return false
	}
	return true
}

// Repository is a persistence port for Product (collection: products).
type Repository interface {
	// GetByID returns ErrNotFound when the document is absent.
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
	// Create assigns an id when p.ID is empty.
	Create(ctx context.Context, p *Product) (*Product, error)
	// Update replaces the stored product; ErrNotFound when absent.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
