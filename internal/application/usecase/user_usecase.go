// internal/application/usecase/user_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"
)

type UserUsecase struct {
	repo   userdom.Repository
	admins userdom.AdminAllowlist
	clock  Clock
}

func NewUserUsecase(repo userdom.Repository, adminEmails []string) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		admins: userdom.NewAdminAllowlist(adminEmails),
		clock:  systemClock{},
	}
}

type EnsureProfileInput struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	// AdminClaim is the verified "admin" custom claim of the ID token.
	AdminClaim bool
}

// EnsureProfile creates users/{uid} on first sign-in and refreshes display fields afterwards.
// isAdmin is sticky: once granted it is only revoked by editing the stored document.
func (uc *UserUsecase) EnsureProfile(ctx context.Context, in EnsureProfileInput) (*userdom.User, error) {
	uid := strings.TrimSpace(in.UID)
	if uid == "" {
		return nil, invalidArg("uid is required")
	}
	now := uc.clock.Now()
	grant := in.AdminClaim || uc.admins.Contains(in.Email)

	u, err := uc.repo.GetByID(ctx, uid)
	switch {
	case errors.Is(err, userdom.ErrNotFound):
		u = &userdom.User{
			ID:        uid,
			Email:     strings.TrimSpace(in.Email),
			IsAdmin:   grant,
			CreatedAt: now,
		}
		log.Printf("[user_usecase] new profile uid=%s admin=%t", maskID(uid), grant)
	case err != nil:
		return nil, err
	}

	if e := strings.TrimSpace(in.Email); e != "" {
		u.Email = e
	}
	if n := strings.TrimSpace(in.DisplayName); n != "" {
		u.DisplayName = n
	}
	if p := strings.TrimSpace(in.PhotoURL); p != "" {
		u.PhotoURL = p
	}
	u.IsAdmin = u.IsAdmin || grant
	u.UpdatedAt = now

	if err := uc.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UserUsecase) Get(ctx context.Context, uid string) (*userdom.User, error) {
	u, err := uc.repo.GetByID(ctx, strings.TrimSpace(uid))
	if errors.Is(err, userdom.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// IsAdmin reads the stored role. Missing profiles are not admins.
func (uc *UserUsecase) IsAdmin(ctx context.Context, uid string) (bool, error) {
	u, err := uc.repo.GetByID(ctx, strings.TrimSpace(uid))
	if errors.Is(err, userdom.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}
