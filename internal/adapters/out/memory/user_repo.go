// internal/adapters/out/memory/user_repo.go
package memory

import (
	"context"
	"strings"

	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"
)

type UserRepo struct{ s *Store }

var _ userdom.Repository = (*UserRepo)(nil)

func (r *UserRepo) GetByID(_ context.Context, id string) (*userdom.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[strings.TrimSpace(id)]
	if !ok {
		return nil, userdom.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) Save(_ context.Context, u *userdom.User) error {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return userdom.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.users[strings.TrimSpace(u.ID)] = *u
	return nil
}
