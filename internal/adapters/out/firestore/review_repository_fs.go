// internal/adapters/out/firestore/review_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
)

// ReviewRepositoryFS implements review.Repository.
// docId = userId__productId, so Create doubles as the uniqueness check.
type ReviewRepositoryFS struct {
	Client *firestore.Client
}

func NewReviewRepositoryFS(client *firestore.Client) *ReviewRepositoryFS {
	return &ReviewRepositoryFS{Client: client}
}

var _ reviewdom.Repository = (*ReviewRepositoryFS)(nil)

func (r *ReviewRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("reviews")
}

func (r *ReviewRepositoryFS) Create(ctx context.Context, rv *reviewdom.Review) (*reviewdom.Review, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("review_repository_fs: firestore client is nil")
	}
	if rv == nil {
		return nil, reviewdom.ErrInvalid
	}
	id := reviewdom.DocID(rv.UserID, rv.ProductID)
	_, err := r.col().Doc(id).Create(ctx, map[string]any{
		"productId": rv.ProductID,
		"userId":    rv.UserID,
		"userName":  rv.UserName,
		"rating":    rv.Rating,
		"comment":   rv.Comment,
		"orderId":   rv.OrderID,
		"createdAt": rv.CreatedAt,
		"updatedAt": rv.UpdatedAt,
	})
	if err != nil {
		if isAlreadyExists(err) {
			return nil, reviewdom.ErrAlreadyExists
		}
		return nil, err
	}
	cp := *rv
	cp.ID = id
	return &cp, nil
}

func (r *ReviewRepositoryFS) GetByID(ctx context.Context, id string) (*reviewdom.Review, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("review_repository_fs: firestore client is nil")
	}
	rid := strings.TrimSpace(id)
	if rid == "" {
		return nil, reviewdom.ErrNotFound
	}
	snap, err := r.col().Doc(rid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, reviewdom.ErrNotFound
		}
		return nil, err
	}
	return reviewFromSnapshot(rid, snap.Data()), nil
}

// GetByUserAndProduct returns (nil, nil) if not found (nil policy).
func (r *ReviewRepositoryFS) GetByUserAndProduct(ctx context.Context, userID, productID string) (*reviewdom.Review, error) {
	rv, err := r.GetByID(ctx, reviewdom.DocID(userID, productID))
	if errors.Is(err, reviewdom.ErrNotFound) {
		return nil, nil
	}
	return rv, err
}

func (r *ReviewRepositoryFS) ListByProduct(ctx context.Context, productID string) ([]reviewdom.Review, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("review_repository_fs: firestore client is nil")
	}
	it := r.col().Where("productId", "==", strings.TrimSpace(productID)).Documents(ctx)
	defer it.Stop()

	out := []reviewdom.Review{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *reviewFromSnapshot(doc.Ref.ID, doc.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepositoryFS) Update(ctx context.Context, id string, rating int, comment string, now time.Time) (*reviewdom.Review, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("review_repository_fs: firestore client is nil")
	}
	rid := strings.TrimSpace(id)
	_, err := r.col().Doc(rid).Update(ctx, []firestore.Update{
		{Path: "rating", Value: rating},
		{Path: "comment", Value: comment},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, reviewdom.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, rid)
}

func (r *ReviewRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("review_repository_fs: firestore client is nil")
	}
	_, err := r.col().Doc(strings.TrimSpace(id)).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return reviewdom.ErrNotFound
	}
	return err
}

func reviewFromSnapshot(id string, raw map[string]any) *reviewdom.Review {
	return &reviewdom.Review{
		ID:        id,
		ProductID: asString(raw["productId"]),
		UserID:    asString(raw["userId"]),
		UserName:  asString(raw["userName"]),
		Rating:    asInt(raw["rating"]),
		Comment:   asString(raw["comment"]),
		OrderID:   asString(raw["orderId"]),
		CreatedAt: timeField(raw, "createdAt"),
		UpdatedAt: timeField(raw, "updatedAt"),
	}
}
