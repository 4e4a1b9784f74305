// internal/adapters/out/memory/review_repo.go
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
)

type ReviewRepo struct{ s *Store }

var _ reviewdom.Repository = (*ReviewRepo)(nil)

func (r *ReviewRepo) Create(_ context.Context, rv *reviewdom.Review) (*reviewdom.Review, error) {
	if rv == nil {
		return nil, reviewdom.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := reviewdom.DocID(rv.UserID, rv.ProductID)
	if _, ok := r.s.reviews[id]; ok {
		return nil, reviewdom.ErrAlreadyExists
	}
	cp := *rv
	cp.ID = id
	r.s.reviews[id] = cp
	return &cp, nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*reviewdom.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[strings.TrimSpace(id)]
	if !ok {
		return nil, reviewdom.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepo) GetByUserAndProduct(_ context.Context, userID, productID string) (*reviewdom.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[reviewdom.DocID(userID, productID)]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *ReviewRepo) ListByProduct(_ context.Context, productID string) ([]reviewdom.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pid := strings.TrimSpace(productID)
	out := []reviewdom.Review{}
	for _, rv := range r.s.reviews {
		if rv.ProductID == pid {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepo) Update(_ context.Context, id string, rating int, comment string, now time.Time) (*reviewdom.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rid := strings.TrimSpace(id)
	rv, ok := r.s.reviews[rid]
	if !ok {
		return nil, reviewdom.ErrNotFound
	}
	rv.Rating = rating
	rv.Comment = comment
	rv.UpdatedAt = now
	r.s.reviews[rid] = rv
	return &rv, nil
}

func (r *ReviewRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rid := strings.TrimSpace(id)
	if _, ok := r.s.reviews[rid]; !ok {
		return reviewdom.ErrNotFound
	}
	delete(r.s.reviews, rid)
	return nil
}
