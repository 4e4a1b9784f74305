// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	categorydom "github.com/HydraRosario/vibeshoes/internal/domain/category"
)

type CategoryUsecase struct {
	repo categorydom.Repository
}

func NewCategoryUsecase(repo categorydom.Repository) *CategoryUsecase {
	return &CategoryUsecase{repo: repo}
}

// Names returns category names sorted alphabetically.
func (uc *CategoryUsecase) Names(ctx context.Context) ([]string, error) {
	cats, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out, nil
}

func (uc *CategoryUsecase) Add(ctx context.Context, name string) (*categorydom.Category, error) {
	n, err := categorydom.NormalizeName(name)
	if err != nil {
		return nil, invalidArg("category name is required")
	}
	c, err := uc.repo.Create(ctx, n)
	if errors.Is(err, categorydom.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: category %q exists", ErrConflict, n)
	}
	return c, err
}

func (uc *CategoryUsecase) Delete(ctx context.Context, name string) error {
	n, err := categorydom.NormalizeName(name)
	if err != nil {
		return invalidArg("category name is required")
	}
	err = uc.repo.DeleteByName(ctx, n)
	if errors.Is(err, categorydom.ErrNotFound) {
		return fmt.Errorf("%w: category %q", ErrNotFound, n)
	}
	return err
}
