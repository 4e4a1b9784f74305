// internal/domain/review/entity.go
package review

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("review: not found")
	ErrInvalid       = errors.New("review: invalid")
	ErrAlreadyExists = errors.New("review: already exists for user and product")
)

const (
	MinRating = 1
	MaxRating = 5
	// MaxCommentLen bounds the stored comment (runes).
	MaxCommentLen = 2000
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	OrderID   string    `json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocID is the deterministic document id that makes (userId, productId) unique.
func DocID(userID, productID string) string {
	return strings.TrimSpace(userID) + "__" + strings.TrimSpace(productID)
}

func New(productID, userID, userName string, rating int, comment, orderID string, now time.Time) (*Review, error) {
	r := &Review{
		ProductID: strings.TrimSpace(productID),
		UserID:    strings.TrimSpace(userID),
		UserName:  strings.TrimSpace(userName),
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		OrderID:   strings.TrimSpace(orderID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.ID = DocID(r.UserID, r.ProductID)
	return r, nil
}

func (r *Review) Validate() error {
	if r == nil || r.ProductID == "" || r.UserID == "" || r.OrderID == "" {
		return ErrInvalid
	}
	if err := ValidateRating(r.Rating); err != nil {
		return err
	}
	return ValidateComment(r.Comment)
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalid
	}
	return nil
}

func ValidateComment(c string) error {
	if len([]rune(c)) > MaxCommentLen {
		return ErrInvalid
	}
	return nil
}
