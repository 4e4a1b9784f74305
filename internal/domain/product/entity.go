// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalid           = errors.New("product: invalid")
	ErrVariationNotFound = errors.New("product: variation not found")
)

// Variation is the purchasable unit of a product: one color with its sizes,
// images and stock. Color is unique within a product.
type Variation struct {
	Color  string        `json:"color"`
	Sizes  []common.Size `json:"tallesDisponibles"`
	Images []string      `json:"images"`
	Stock  int           `json:"stock"`
	// Price overrides Product.Price when set.
	Price *float64 `json:"price,omitempty"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Images      []string    `json:"images"`
	Category    string      `json:"category"`
	OnSale      bool        `json:"onSale"`
	Variations  []Variation `json:"variations"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Normalize trims text fields and drops empty sizes/images in place.
func (p *Product) Normalize() {
	if p == nil {
		return
	}
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)
	p.Images = compactStrings(p.Images)
	for i := range p.Variations {
		v := &p.Variations[i]
		v.Color = strings.TrimSpace(v.Color)
		v.Images = compactStrings(v.Images)
		sizes := make([]common.Size, 0, len(v.Sizes))
		for _, s := range v.Sizes {
			s = s.Normalize()
			if !s.IsZero() {
				sizes = append(sizes, s)
			}
		}
		v.Sizes = sizes
	}
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalid
	}
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return ErrInvalid
	}
	seen := make(map[string]struct{}, len(p.Variations))
	for _, v := range p.Variations {
		c := strings.TrimSpace(v.Color)
		if c == "" || v.Stock < 0 {
			return ErrInvalid
		}
		if v.Price != nil && *v.Price < 0 {
			return ErrInvalid
		}
		if _, dup := seen[c]; dup {
			return ErrInvalid
		}
		seen[c] = struct{}{}
	}
	return nil
}

// VariationIndex returns the index of the variation whose color equals color, or -1.
func (p *Product) VariationIndex(color string) int {
	if p == nil {
		return -1
	}
	c := strings.TrimSpace(color)
	for i := range p.Variations {
		if p.Variations[i].Color == c {
			return i
		}
	}
	return -1
}

// UnitPrice returns the variation override price or the product base price.
func (p *Product) UnitPrice(color string) float64 {
	if idx := p.VariationIndex(color); idx >= 0 && p.Variations[idx].Price != nil {
		return *p.Variations[idx].Price
	}
	return p.Price
}

func (p *Product) TotalStock() int {
	n := 0
	for _, v := range p.Variations {
		if v.Stock > 0 {
			n += v.Stock
		}
	}
	return n
}

func (p *Product) HasSize(size common.Size) bool {
	want := size.Normalize()
	for _, v := range p.Variations {
		for _, s := range v.Sizes {
			if s.Normalize() == want {
				return true
			}
		}
	}
	return false
}

// DecrementStock subtracts qty from the variation matching color, floored at zero.
func (p *Product) DecrementStock(color string, qty int) (before, after int, err error) {
	if qty <= 0 {
		return 0, 0, ErrInvalid
	}
	idx := p.VariationIndex(color)
	if idx < 0 {
		return 0, 0, ErrVariationNotFound
	}
	before = p.Variations[idx].Stock
	after = before - qty
	if after < 0 {
		after = 0
	}
	p.Variations[idx].Stock = after
	return before, after, nil
}

func compactStrings(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if s := strings.TrimSpace(x); s != "" {
			out = append(out, s)
		}
	}
	return out
}
