// internal/domain/category/entity.go
package category

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("category: not found")
	ErrInvalid       = errors.New("category: invalid")
	ErrAlreadyExists = errors.New("category: already exists")
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NormalizeName(name string) (string, error) {
	n := strings.Join(strings.Fields(name), " ")
	if n == "" || len(n) > 80 {
		return "", ErrInvalid
	}
	return n, nil
}

// Repository is a persistence port for categories (collection: categories).
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	// Create fails with ErrAlreadyExists when a category with the same name (case-insensitive) exists.
	Create(ctx context.Context, name string) (*Category, error)
	// DeleteByName returns ErrNotFound when no category has that name.
	DeleteByName(ctx context.Context, name string) error
}
