// internal/domain/order/repository_port.go
package order

import "context"

// MutateFunc inspects the current order and returns the patch to write.
// Returning (nil, nil) skips the write.
type MutateFunc func(current *Order) (*Patch, error)

// Repository is a persistence port for Order (collection: orders).
type Repository interface {
	// Create assigns an id when o.ID is empty.
	Create(ctx context.Context, o *Order) (*Order, error)
	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)

	// Update runs fn against the stored order atomically and writes only the
	// patched fields plus updatedAt. Returns ErrNotFound when absent.
	Update(ctx context.Context, id string, fn MutateFunc) (*Order, error)

	Delete(ctx context.Context, id string) error
}
