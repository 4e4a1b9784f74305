// internal/adapters/out/memory/cart_repo.go
package memory

import (
	"context"
	"strings"

	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

type CartRepo struct{ s *Store }

var _ cartdom.Repository = (*CartRepo)(nil)

func (r *CartRepo) GetByUserID(_ context.Context, userID string) (*cartdom.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.carts[strings.TrimSpace(userID)]
	if !ok {
		return nil, nil
	}
	out := cloneCart(c)
	return &out, nil
}

func (r *CartRepo) Save(_ context.Context, c *cartdom.Cart, opts common.SaveOptions) error {
	if c == nil || strings.TrimSpace(c.UserID) == "" {
		return cartdom.ErrInvalidCart
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	uid := strings.TrimSpace(c.UserID)
	var stored int64
	if cur, ok := r.s.carts[uid]; ok {
		stored = cur.Version
	}
	if !opts.Matches(stored) {
		return cartdom.ErrConflict
	}
	c.Version = stored + 1
	r.s.carts[uid] = cloneCart(*c)
	return nil
}

func (r *CartRepo) DeleteByUserID(_ context.Context, userID string, opts common.SaveOptions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	uid := strings.TrimSpace(userID)
	cur, ok := r.s.carts[uid]
	if !ok {
		if opts.IfMatchVersion != nil && *opts.IfMatchVersion != 0 {
			return cartdom.ErrConflict
		}
		return nil
	}
	if !opts.Matches(cur.Version) {
		return cartdom.ErrConflict
	}
	delete(r.s.carts, uid)
	return nil
}
