// internal/domain/review/repository_port.go
package review

import (
	"context"
	"time"
)

// Repository is a persistence port for Review (collection: reviews, docId: userId__productId).
type Repository interface {
	// Create fails with ErrAlreadyExists if a review for (userId, productId) exists.
	Create(ctx context.Context, r *Review) (*Review, error)
	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Review, error)
	// GetByUserAndProduct returns (nil, nil) when absent.
	GetByUserAndProduct(ctx context.Context, userID, productID string) (*Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	// Update changes rating and comment only.
	Update(ctx context.Context, id string, rating int, comment string, now time.Time) (*Review, error)
	Delete(ctx context.Context, id string) error
}
