// internal/adapters/out/memory/category_repo.go
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	categorydom "github.com/HydraRosario/vibeshoes/internal/domain/category"
)

type CategoryRepo struct{ s *Store }

var _ categorydom.Repository = (*CategoryRepo)(nil)

func (r *CategoryRepo) List(_ context.Context) ([]categorydom.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]categorydom.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Create(_ context.Context, name string) (*categorydom.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, name) {
			return nil, categorydom.ErrAlreadyExists
		}
	}
	c := categorydom.Category{ID: uuid.NewString(), Name: name}
	r.s.categories[c.ID] = c
	return &c, nil
}

func (r *CategoryRepo) DeleteByName(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.categories {
		if strings.EqualFold(c.Name, name) {
			delete(r.s.categories, id)
			return nil
		}
	}
	return categorydom.ErrNotFound
}
