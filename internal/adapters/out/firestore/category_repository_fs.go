// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	categorydom "github.com/HydraRosario/vibeshoes/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository.
// nameLower backs the case-insensitive uniqueness check.
type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

var _ categorydom.Repository = (*CategoryRepositoryFS)(nil)

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	it := r.col().Documents(ctx)
	defer it.Stop()

	out := []categorydom.Category{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(asString(doc.Data()["name"]))
		if name == "" {
			continue
		}
		out = append(out, categorydom.Category{ID: doc.Ref.ID, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepositoryFS) Create(ctx context.Context, name string) (*categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	lower := strings.ToLower(name)
	ref := r.col().NewDoc()

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(r.col().Where("nameLower", "==", lower).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return categorydom.ErrAlreadyExists
		}
		return tx.Create(ref, map[string]any{"name": name, "nameLower": lower})
	})
	if err != nil {
		return nil, err
	}
	return &categorydom.Category{ID: ref.ID, Name: name}, nil
}

func (r *CategoryRepositoryFS) DeleteByName(ctx context.Context, name string) error {
	if r == nil || r.Client == nil {
		return errors.New("category_repository_fs: firestore client is nil")
	}
	docs, err := r.col().Where("nameLower", "==", strings.ToLower(name)).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return categorydom.ErrNotFound
	}
	for _, d := range docs {
		if _, err := d.Ref.Delete(ctx); err != nil {
			return err
		}
	}
	return nil
}
