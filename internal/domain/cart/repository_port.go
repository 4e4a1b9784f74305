// internal/domain/cart/repository_port.go
package cart

import (
	"context"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

// Repository is a persistence port for Cart.
//
// Storage (Firestore):
//   - collection: carts
//   - docId: userId
//   - fields: userId, items[], total (derived, informational), version, createdAt, updatedAt
type Repository interface {
	// GetByUserID returns (nil, nil) if not found (nil policy).
	GetByUserID(ctx context.Context, userID string) (*Cart, error)

	// Save writes the whole cart. When opts.IfMatchVersion is set and the stored
	// version differs, it returns ErrConflict. On success c.Version is bumped.
	Save(ctx context.Context, c *Cart, opts common.SaveOptions) error

	// DeleteByUserID removes the cart document. Missing documents are not an error.
	DeleteByUserID(ctx context.Context, userID string, opts common.SaveOptions) error
}
