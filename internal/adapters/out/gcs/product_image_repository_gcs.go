// internal/adapters/out/gcs/product_image_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
)

// ProductImageRepositoryGCS stores product images in object storage.
//
// Layout (single bucket):
// - bucket: PRODUCT_IMAGE_BUCKET
// - objectPath: products/{productId}/{fileName}
//
// Public access:
//   - If the bucket has IAM "allUsers: Storage Object Viewer" (uniform access),
//     uploaded objects become publicly readable without per-object ACL changes.
type ProductImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewProductImageRepositoryGCS(client *storage.Client, bucket string) *ProductImageRepositoryGCS {
	return &ProductImageRepositoryGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

// Upload writes the image and returns its public URL.
func (r *ProductImageRepositoryGCS) Upload(ctx context.Context, productID, fileName string, body io.Reader, contentType string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("product_image_repository_gcs: storage client is nil")
	}

	bucket := strings.TrimSpace(r.Bucket)
	if bucket == "" {
		return "", errors.New("product_image_repository_gcs: bucket is empty")
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return "", errors.New("product_image_repository_gcs: productID is empty")
	}

	name := sanitizeFileName(fileName)
	if name == "" {
		name = "image"
	}

	obj := fmt.Sprintf("products/%s/%s", pid, name)

	w := r.Client.Bucket(bucket).Object(obj).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("product_image_repository_gcs: upload %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("product_image_repository_gcs: close %s: %w", obj, err)
	}

	base := strings.TrimRight(strings.TrimSpace(r.PublicBaseURL), "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, obj), nil
}

// sanitizeFileName keeps the base name and strips path separators.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
