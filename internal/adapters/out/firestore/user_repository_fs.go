// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"
)

// UserRepositoryFS implements user.Repository (collection: users, docId: Firebase uid).
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

var _ userdom.Repository = (*UserRepositoryFS)(nil)

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(id)
	if uid == "" {
		return nil, userdom.ErrNotFound
	}
	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, userdom.ErrNotFound
		}
		return nil, err
	}
	raw := snap.Data()
	return &userdom.User{
		ID:          uid,
		Email:       asString(raw["email"]),
		DisplayName: asString(raw["displayName"]),
		PhotoURL:    asString(raw["photoURL"]),
		IsAdmin:     asBool(raw["isAdmin"]),
		CreatedAt:   timeField(raw, "createdAt"),
		UpdatedAt:   timeField(raw, "updatedAt"),
	}, nil
}

func (r *UserRepositoryFS) Save(ctx context.Context, u *userdom.User) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return userdom.ErrInvalid
	}
	_, err := r.col().Doc(strings.TrimSpace(u.ID)).Set(ctx, map[string]any{
		"email":       u.Email,
		"displayName": u.DisplayName,
		"photoURL":    u.PhotoURL,
		"isAdmin":     u.IsAdmin,
		"createdAt":   u.CreatedAt,
		"updatedAt":   u.UpdatedAt,
	})
	return err
}
