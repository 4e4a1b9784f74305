// internal/domain/user/entity.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("user: not found")
	ErrInvalid  = errors.New("user: invalid")
)

// User is the profile document (collection: users, docId: Firebase uid).
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AdminAllowlist seeds the isAdmin flag from configured emails.
type AdminAllowlist map[string]struct{}

func NewAdminAllowlist(emails []string) AdminAllowlist {
	out := AdminAllowlist{}
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

func (a AdminAllowlist) Contains(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

type Repository interface {
	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*User, error)
	// Save writes the whole profile (create or replace).
	Save(ctx context.Context, u *User) error
}
