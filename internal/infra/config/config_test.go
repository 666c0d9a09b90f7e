// internal/infra/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GCP_PROJECT_ID", "")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("STORE_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "storefront-dev", cfg.FirestoreProjectID)
	assert.Equal(t, "storefront-dev", cfg.FirebaseProjectID)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "http://localhost:8080", cfg.StoreBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GCP_PROJECT_ID", "proj-x")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("FIREBASE_PROJECT_ID", "fb-y")
	t.Setenv("PRODUCT_IMAGE_BUCKET", "bucket-z")
	t.Setenv("CATALOG_BASE_URL", "https://fakestoreapi.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	// firestore project falls back to the GCP project
	assert.Equal(t, "proj-x", cfg.FirestoreProjectID)
	assert.Equal(t, "fb-y", cfg.FirebaseProjectID)
	assert.Equal(t, "bucket-z", cfg.ProductImageBucket)
	assert.Equal(t, "https://fakestoreapi.com", cfg.CatalogBaseURL)
}
