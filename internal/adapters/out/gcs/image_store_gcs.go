// internal/adapters/out/gcs/image_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// ImageStoreGCS uploads product images as public objects under "products/".
type ImageStoreGCS struct {
	Client *storage.Client
	Bucket string
}

var _ uc.ImageStore = (*ImageStoreGCS)(nil)

func NewImageStoreGCS(client *storage.Client, bucket string) *ImageStoreGCS {
	return &ImageStoreGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

func (s *ImageStoreGCS) Put(ctx context.Context, fileName, contentType string, r io.Reader) (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("ImageStoreGCS: nil storage client")
	}
	if s.Bucket == "" {
		return "", errors.New("ImageStoreGCS: bucket is empty")
	}

	obj := ObjectName(fileName)
	w := s.Client.Bucket(s.Bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("ImageStoreGCS: write %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("ImageStoreGCS: close %s: %w", obj, err)
	}
	return PublicURL(s.Bucket, obj), nil
}

// ObjectName returns "products/<uuid><ext>", keeping only a sanitized extension.
func ObjectName(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if len(ext) > 6 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return "products/" + uuid.NewString() + ext
}

// PublicURL builds https://storage.googleapis.com/<bucket>/<object>.
func PublicURL(bucket, objectPath string) string {
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(bucket), obj)
}
