// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

// maxCartAttempts bounds optimistic-lock retries for one cart mutation.
const maxCartAttempts = 4

// CartUsecase coordinates cart operations.
//
// Every mutation is read → mutate → conditional write guarded by the cart version.
// A mutation that leaves zero lines deletes the document.
type CartUsecase struct {
	repo    cartdom.Repository
	catalog productdom.Repository
	clock   Clock
}

func NewCartUsecase(repo cartdom.Repository) *CartUsecase {
	return &CartUsecase{repo: repo, clock: systemClock{}}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, clock Clock) *CartUsecase {
	return &CartUsecase{repo: repo, clock: orSystemClock(clock)}
}

// WithCatalog makes AddItem resolve name/price/image from the product document
// instead of trusting the caller's selection.
func (uc *CartUsecase) WithCatalog(products productdom.Repository) *CartUsecase {
	uc.catalog = products
	return uc
}

// AddItemInput is the caller's product selection.
type AddItemInput struct {
	ProductID string
	Color     string
	Size      common.Size
	Quantity  int
	Price     float64
	Name      string
	ImageURL  string
}

// Get returns the cart for userID. A missing document yields an empty, unsaved cart.
func (uc *CartUsecase) Get(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, invalidArg("userId is required")
	}
	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &cartdom.Cart{UserID: uid, Items: []cartdom.Item{}}, nil
	}
	return c, nil
}

func (uc *CartUsecase) AddItem(ctx context.Context, userID string, in AddItemInput) (*cartdom.Cart, error) {
	if strings.TrimSpace(in.ProductID) == "" || in.Quantity <= 0 {
		return nil, invalidArg("productId and quantity(>=1) are required")
	}

	item := cartdom.Item{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Price:         in.Price,
		Name:          in.Name,
		ImageURL:      in.ImageURL,
		SelectedColor: in.Color,
		SelectedSize:  in.Size,
	}
	if uc.catalog != nil {
		resolved, err := uc.resolveSelection(ctx, item)
		if err != nil {
			return nil, err
		}
		item = resolved
	}

	return uc.mutate(ctx, userID, true, func(c *cartdom.Cart) error {
		return c.Add(item, uc.clock.Now())
	})
}

// SetItemQty sets the quantity of one (productId, color, size) line. qty <= 0 removes it.
func (uc *CartUsecase) SetItemQty(ctx context.Context, userID string, key cartdom.LineKey, qty int) (*cartdom.Cart, error) {
	if strings.TrimSpace(key.ProductID) == "" {
		return nil, invalidArg("productId is required")
	}
	return uc.mutate(ctx, userID, false, func(c *cartdom.Cart) error {
		return c.SetQty(key, qty, uc.clock.Now())
	})
}

// RemoveItem removes one line when color or size is given, otherwise every line of productID.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, productID, color string, size common.Size) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, invalidArg("productId is required")
	}
	wholeProduct := strings.TrimSpace(color) == "" && size.IsZero()

	return uc.mutate(ctx, userID, false, func(c *cartdom.Cart) error {
		now := uc.clock.Now()
		if wholeProduct {
			if c.RemoveProduct(pid, now) == 0 {
				return cartdom.ErrLineNotFound
			}
			return nil
		}
		if !c.RemoveLine(cartdom.NewLineKey(pid, color, size), now) {
			return cartdom.ErrLineNotFound
		}
		return nil
	})
}

// Clear unconditionally deletes the cart document.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return invalidArg("userId is required")
	}
	return uc.repo.DeleteByUserID(ctx, uid, common.SaveOptions{})
}

func (uc *CartUsecase) mutate(ctx context.Context, userID string, create bool, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, invalidArg("userId is required")
	}

	for attempt := 1; attempt <= maxCartAttempts; attempt++ {
		c, err := uc.repo.GetByUserID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if c == nil {
			if !create {
				return nil, fmt.Errorf("%w: cart line", ErrNotFound)
			}
			if c, err = cartdom.NewCart(uid, uc.clock.Now()); err != nil {
				return nil, mapCartErr(err)
			}
		}

		expected := c.Version
		if err := fn(c); err != nil {
			return nil, mapCartErr(err)
		}

		if c.IsEmpty() {
			err = uc.repo.DeleteByUserID(ctx, uid, common.IfMatch(expected))
			if err == nil {
				c.Items = []cartdom.Item{}
				c.Version = 0
			}
		} else {
			err = uc.repo.Save(ctx, c, common.IfMatch(expected))
		}

		if errors.Is(err, cartdom.ErrConflict) {
			log.Printf("[cart_usecase] version conflict uid=%s attempt=%d expected=%d", maskID(uid), attempt, expected)
			continue
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: cart was modified concurrently", ErrConflict)
}

func (uc *CartUsecase) resolveSelection(ctx context.Context, it cartdom.Item) (cartdom.Item, error) {
	p, err := uc.catalog.GetByID(ctx, strings.TrimSpace(it.ProductID))
	if errors.Is(err, productdom.ErrNotFound) {
		return it, fmt.Errorf("%w: product %s", ErrNotFound, it.ProductID)
	}
	if err != nil {
		return it, err
	}

	idx := p.VariationIndex(it.SelectedColor)
	if len(p.Variations) > 0 && idx < 0 {
		return it, invalidArg("color %q is not available", it.SelectedColor)
	}
	if idx >= 0 && !it.SelectedSize.IsZero() && len(p.Variations[idx].Sizes) > 0 {
		found := false
		for _, s := range p.Variations[idx].Sizes {
			if s.Normalize() == it.SelectedSize.Normalize() {
				found = true
				break
			}
		}
		if !found {
			return it, invalidArg("size %q is not available", it.SelectedSize)
		}
	}

	it.Price = p.UnitPrice(it.SelectedColor)
	it.Name = p.Name
	if idx >= 0 && len(p.Variations[idx].Images) > 0 {
		it.ImageURL = p.Variations[idx].Images[0]
	} else if len(p.Images) > 0 {
		it.ImageURL = p.Images[0]
	}
	return it, nil
}

func mapCartErr(err error) error {
	switch {
	case errors.Is(err, cartdom.ErrInvalidCart):
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	case errors.Is(err, cartdom.ErrLineNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
