// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

type ProductUsecase struct {
	repo  productdom.Repository
	clock Clock
}

func NewProductUsecase(repo productdom.Repository) *ProductUsecase {
	return &ProductUsecase{repo: repo, clock: systemClock{}}
}

func (uc *ProductUsecase) List(ctx context.Context, f productdom.Filter) ([]productdom.Product, error) {
	return uc.repo.List(ctx, f)
}

func (uc *ProductUsecase) Get(ctx context.Context, id string) (*productdom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, invalidArg("productId is required")
	}
	p, err := uc.repo.GetByID(ctx, pid)
	if errors.Is(err, productdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, pid)
	}
	return p, err
}

func (uc *ProductUsecase) Create(ctx context.Context, p productdom.Product) (*productdom.Product, error) {
	p.Normalize()
	p.ID = ""
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	now := uc.clock.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	return uc.repo.Create(ctx, &p)
}

// Update replaces the editable fields of a product; createdAt is preserved.
func (uc *ProductUsecase) Update(ctx context.Context, id string, p productdom.Product) (*productdom.Product, error) {
	cur, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	p.ID = cur.ID
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = uc.clock.Now()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := uc.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, p.ID)
		}
		return nil, err
	}
	return &p, nil
}

func (uc *ProductUsecase) Delete(ctx context.Context, id string) error {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return invalidArg("productId is required")
	}
	err := uc.repo.Delete(ctx, pid)
	if errors.Is(err, productdom.ErrNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, pid)
	}
	return err
}

// MaxImageBytes bounds one product image upload.
const MaxImageBytes = 10 << 20

// ImageUsecase accepts a file and returns a public URL.
type ImageUsecase struct {
	store ImageStore
}

func NewImageUsecase(store ImageStore) *ImageUsecase {
	return &ImageUsecase{store: store}
}

func (uc *ImageUsecase) Upload(ctx context.Context, fileName, contentType string, size int64, r io.Reader) (string, error) {
	if uc == nil || uc.store == nil {
		return "", fmt.Errorf("%w: image storage", ErrNotConfigured)
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") {
		return "", invalidArg("only image uploads are accepted")
	}
	if size <= 0 || size > MaxImageBytes {
		return "", invalidArg("image must be between 1 byte and %d bytes", MaxImageBytes)
	}
	return uc.store.Put(ctx, fileName, ct, io.LimitReader(r, MaxImageBytes))
}
