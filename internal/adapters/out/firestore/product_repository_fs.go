// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository (collection: products).
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

var _ productdom.Repository = (*ProductRepositoryFS)(nil)

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, productdom.ErrNotFound
	}
	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return productFromSnapshot(pid, snap.Data()), nil
}

// List scans the collection and filters in memory; category and size
// matching are case/format-insensitive which Firestore queries cannot express.
func (r *ProductRepositoryFS) List(ctx context.Context, f productdom.Filter) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	it := r.col().Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p := productFromSnapshot(doc.Ref.ID, doc.Data())
		if f.Match(*p) {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p *productdom.Product) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	if p == nil {
		return nil, productdom.ErrInvalid
	}
	ref := r.col().NewDoc()
	if id := strings.TrimSpace(p.ID); id != "" {
		ref = r.col().Doc(id)
	}
	if _, err := ref.Create(ctx, productToDoc(p)); err != nil {
		return nil, err
	}
	cp := *p
	cp.ID = ref.ID
	return &cp, nil
}

func (r *ProductRepositoryFS) Update(ctx context.Context, p *productdom.Product) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return productdom.ErrInvalid
	}
	ref := r.col().Doc(strings.TrimSpace(p.ID))
	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return productdom.ErrNotFound
			}
			return err
		}
		return tx.Set(ref, productToDoc(p))
	})
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return productdom.ErrNotFound
	}
	ref := r.col().Doc(pid)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return productdom.ErrNotFound
		}
		return err
	}
	_, err := ref.Delete(ctx)
	return err
}

// sizeToDoc stores whole-number sizes as integers, matching documents written by
// the storefront admin (tallesDisponibles: [40, 41]). Other sizes stay strings.
func sizeToDoc(s common.Size) any {
	v := s.Normalize().String()
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}

func variationsToDoc(vs []productdom.Variation) []map[string]any {
	out := make([]map[string]any, 0, len(vs))
	for _, v := range vs {
		sizes := make([]any, 0, len(v.Sizes))
		for _, s := range v.Sizes {
			sizes = append(sizes, sizeToDoc(s))
		}
		m := map[string]any{
			"color":             v.Color,
			"tallesDisponibles": sizes,
			"images":            v.Images,
			"stock":             v.Stock,
		}
		if v.Price != nil {
			m["price"] = *v.Price
		}
		out = append(out, m)
	}
	return out
}

func productToDoc(p *productdom.Product) map[string]any {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return map[string]any{
		"name":        p.Name,
		"price":       p.Price,
		"description": p.Description,
		"images":      images,
		"category":    p.Category,
		"onSale":      p.OnSale,
		"variations":  variationsToDoc(p.Variations),
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

// productFromSnapshot tolerates numeric sizes ("tallesDisponibles": [40, 41.5])
// and ISO-string timestamps.
func productFromSnapshot(id string, raw map[string]any) *productdom.Product {
	p := &productdom.Product{ID: id}
	if raw == nil {
		return p
	}
	p.Name = asString(raw["name"])
	p.Price = asFloat(raw["price"])
	p.Description = asString(raw["description"])
	p.Images = asStrings(raw["images"])
	p.Category = asString(raw["category"])
	p.OnSale = asBool(raw["onSale"])
	p.CreatedAt = timeField(raw, "createdAt")
	p.UpdatedAt = timeField(raw, "updatedAt")

	for _, m := range asMaps(raw["variations"]) {
		v := productdom.Variation{
			Color:  strings.TrimSpace(asString(m["color"])),
			Images: asStrings(m["images"]),
			Stock:  asInt(m["stock"]),
		}
		if xs, ok := m["tallesDisponibles"].([]any); ok {
			for _, x := range xs {
				if s := common.SizeFromAny(x); !s.IsZero() {
					v.Sizes = append(v.Sizes, s)
				}
			}
		}
		if pv, ok := m["price"]; ok && pv != nil {
			price := asFloat(pv)
			v.Price = &price
		}
		p.Variations = append(p.Variations, v)
	}
	return p
}
