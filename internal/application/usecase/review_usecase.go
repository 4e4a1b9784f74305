// internal/application/usecase/review_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
)

// ReviewUsecase enforces one review per (user, product), backed by a shipped order.
type ReviewUsecase struct {
	repo   reviewdom.Repository
	orders orderdom.Repository
	clock  Clock
}

func NewReviewUsecase(repo reviewdom.Repository, orders orderdom.Repository) *ReviewUsecase {
	return &ReviewUsecase{repo: repo, orders: orders, clock: systemClock{}}
}

func (uc *ReviewUsecase) WithClock(c Clock) *ReviewUsecase {
	uc.clock = orSystemClock(c)
	return uc
}

type AddReviewInput struct {
	UserID    string
	UserName  string
	ProductID string
	OrderID   string
	Rating    int
	Comment   string
}

func (uc *ReviewUsecase) Add(ctx context.Context, in AddReviewInput) (*reviewdom.Review, error) {
	r, err := reviewdom.New(in.ProductID, in.UserID, in.UserName, in.Rating, in.Comment, in.OrderID, uc.clock.Now())
	if err != nil {
		return nil, invalidArg("productId, orderId and rating(1-5) are required")
	}

	if err := uc.checkPurchase(ctx, r.UserID, r.OrderID, r.ProductID); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByUserAndProduct(ctx, r.UserID, r.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: review already exists", ErrConflict)
	}

	created, err := uc.repo.Create(ctx, r)
	if errors.Is(err, reviewdom.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: review already exists", ErrConflict)
	}
	return created, err
}

// checkPurchase requires a shipped order of the caller that contains the product.
func (uc *ReviewUsecase) checkPurchase(ctx context.Context, userID, orderID, productID string) error {
	if uc.orders == nil {
		return fmt.Errorf("%w: order repository", ErrNotConfigured)
	}
	o, err := uc.orders.GetByID(ctx, orderID)
	if errors.Is(err, orderdom.ErrNotFound) {
		return fmt.Errorf("%w: order not found", ErrForbidden)
	}
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	if o.Status != orderdom.StatusShipped {
		return fmt.Errorf("%w: order is not shipped yet", ErrForbidden)
	}
	for _, it := range o.Items {
		if it.ProductID == productID {
			return nil
		}
	}
	return fmt.Errorf("%w: product not in order", ErrForbidden)
}

func (uc *ReviewUsecase) ListByProduct(ctx context.Context, productID string) ([]reviewdom.Review, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, invalidArg("productId is required")
	}
	return uc.repo.ListByProduct(ctx, pid)
}

// GetByUserAndProduct returns ErrNotFound when the user has not reviewed the product.
func (uc *ReviewUsecase) GetByUserAndProduct(ctx context.Context, userID, productID string) (*reviewdom.Review, error) {
	uid, pid := strings.TrimSpace(userID), strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, invalidArg("userId and productId are required")
	}
	r, err := uc.repo.GetByUserAndProduct(ctx, uid, pid)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: review", ErrNotFound)
	}
	return r, nil
}

// Update lets the author change rating and comment.
func (uc *ReviewUsecase) Update(ctx context.Context, userID, reviewID string, rating int, comment string) (*reviewdom.Review, error) {
	if err := reviewdom.ValidateRating(rating); err != nil {
		return nil, invalidArg("rating must be 1-5")
	}
	comment = strings.TrimSpace(comment)
	if err := reviewdom.ValidateComment(comment); err != nil {
		return nil, invalidArg("comment too long")
	}
	cur, err := uc.get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if cur.UserID != strings.TrimSpace(userID) {
		return nil, fmt.Errorf("%w: not the author", ErrForbidden)
	}
	return uc.repo.Update(ctx, cur.ID, rating, comment, uc.clock.Now())
}

// Delete is allowed for the author or an admin.
func (uc *ReviewUsecase) Delete(ctx context.Context, userID string, isAdmin bool, reviewID string) error {
	cur, err := uc.get(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isAdmin && cur.UserID != strings.TrimSpace(userID) {
		return fmt.Errorf("%w: not the author", ErrForbidden)
	}
	return uc.repo.Delete(ctx, cur.ID)
}

func (uc *ReviewUsecase) get(ctx context.Context, id string) (*reviewdom.Review, error) {
	rid := strings.TrimSpace(id)
	if rid == "" {
		return nil, invalidArg("reviewId is required")
	}
	r, err := uc.repo.GetByID(ctx, rid)
	if errors.Is(err, reviewdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, rid)
	}
	return r, err
}
