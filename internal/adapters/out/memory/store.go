// internal/adapters/out/memory/store.go
package memory

import (
	"sync"

	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	categorydom "github.com/HydraRosario/vibeshoes/internal/domain/category"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"
)

// Store is a process-local document store used with DOCSTORE=memory and in tests.
// A single mutex guards every collection, so multi-document operations
// (stock application) are atomic.
type Store struct {
	mu sync.RWMutex

	carts      map[string]cartdom.Cart
	products   map[string]productdom.Product
	orders     map[string]orderdom.Order
	reviews    map[string]reviewdom.Review
	categories map[string]categorydom.Category
	users      map[string]userdom.User
}

func NewStore() *Store {
	return &Store{
		carts:      map[string]cartdom.Cart{},
		products:   map[string]productdom.Product{},
		orders:     map[string]orderdom.Order{},
		reviews:    map[string]reviewdom.Review{},
		categories: map[string]categorydom.Category{},
		users:      map[string]userdom.User{},
	}
}

func (s *Store) Carts() *CartRepo { return &CartRepo{s: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{s: s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// deep copies; stored values never alias caller memory

func cloneCart(c cartdom.Cart) cartdom.Cart {
	c.Items = append([]cartdom.Item{}, c.Items...)
	return c
}

func cloneProduct(p productdom.Product) productdom.Product {
	p.Images = append([]string{}, p.Images...)
	vs := make([]productdom.Variation, len(p.Variations))
	for i, v := range p.Variations {
		v.Sizes = append(v.Sizes[:0:0], v.Sizes...)
		v.Images = append([]string{}, v.Images...)
		if v.Price != nil {
			pr := *v.Price
			v.Price = &pr
		}
		vs[i] = v
	}
	p.Variations = vs
	return p
}

func cloneOrder(o orderdom.Order) orderdom.Order {
	o.Items = append([]orderdom.Item{}, o.Items...)
	return o
}
