// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
//   - collection: carts
//   - docId: userId (source of truth)
//   - fields: userId, items[], total, version, createdAt, updatedAt
//
// Conditional writes run inside a transaction that compares the stored version.
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

var _ cartdom.Repository = (*CartRepositoryFS)(nil)

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByUserID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cartFromSnapshot(uid, snap.Data()), nil
}

func (r *CartRepositoryFS) Save(ctx context.Context, c *cartdom.Cart, opts common.SaveOptions) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil || strings.TrimSpace(c.UserID) == "" {
		return errors.New("cart_repository_fs: Save requires cart.UserID as docId")
	}
	ref := r.col().Doc(strings.TrimSpace(c.UserID))

	var next int64
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var stored int64
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			stored = asInt64(snap.Data()["version"])
		case isNotFound(err):
			stored = 0
		default:
			return err
		}
		if !opts.Matches(stored) {
			return cartdom.ErrConflict
		}
		next = stored + 1
		return tx.Set(ref, cartToDoc(c, next))
	})
	if err != nil {
		return err
	}
	c.Version = next
	return nil
}

// DeleteByUserID removes the cart document. A missing document is success
// unless a non-zero version was expected.
func (r *CartRepositoryFS) DeleteByUserID(ctx context.Context, userID string, opts common.SaveOptions) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}
	ref := r.col().Doc(uid)

	if opts.IfMatchVersion == nil {
		_, err := ref.Delete(ctx)
		return err
	}

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var stored int64
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			stored = asInt64(snap.Data()["version"])
		case isNotFound(err):
			if *opts.IfMatchVersion != 0 {
				return cartdom.ErrConflict
			}
			return nil
		default:
			return err
		}
		if !opts.Matches(stored) {
			return cartdom.ErrConflict
		}
		return tx.Delete(ref)
	})
}

func cartToDoc(c *cartdom.Cart, version int64) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, map[string]any{
			"productId":     it.ProductID,
			"quantity":      it.Quantity,
			"price":         it.Price,
			"name":          it.Name,
			"imageUrl":      it.ImageURL,
			"selectedColor": it.SelectedColor,
			"selectedSize":  it.SelectedSize.String(),
		})
	}
	return map[string]any{
		"userId":    c.UserID,
		"items":     items,
		"total":     c.Total(),
		"version":   version,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

// cartFromSnapshot parses raw data; lines written by older clients may carry
// numeric sizes or duplicate keys, which are normalized and merged.
func cartFromSnapshot(uid string, raw map[string]any) *cartdom.Cart {
	c := &cartdom.Cart{UserID: uid, Items: []cartdom.Item{}}
	if raw == nil {
		return c
	}
	c.Version = asInt64(raw["version"])
	c.CreatedAt = timeField(raw, "createdAt")
	c.UpdatedAt = timeField(raw, "updatedAt")

	items := []cartdom.Item{}
	for _, m := range asMaps(raw["items"]) {
		it := cartdom.Item{
			ProductID:     strings.TrimSpace(asString(m["productId"])),
			Quantity:      asInt(m["quantity"]),
			Price:         asFloat(m["price"]),
			Name:          asString(m["name"]),
			ImageURL:      asString(m["imageUrl"]),
			SelectedColor: strings.TrimSpace(asString(m["selectedColor"])),
			SelectedSize:  common.SizeFromAny(m["selectedSize"]),
		}
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		items = append(items, it)
	}
	c.Items = cartdom.Merge(items)
	return c
}
