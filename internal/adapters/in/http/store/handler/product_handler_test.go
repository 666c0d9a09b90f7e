// internal/adapters/in/http/store/handler/product_handler_test.go
package storeHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proddom "storefront/internal/domain/product"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProductHandlerList(t *testing.T) {
	h := NewProductHandler(catalog())

	t.Run("lists the catalog", func(t *testing.T) {
		rec := get(h, "/store/products")
		require.Equal(t, http.StatusOK, rec.Code)

		var page proddom.Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("filters by category", func(t *testing.T) {
		rec := get(h, "/store/products?category=kitchen")

		var page proddom.Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Mug", page.Items[0].Title)
	})

	t.Run("backend failure is a 5xx, no retry", func(t *testing.T) {
		repo := catalog()
		repo.listErr = errors.New("backend down")
		rec := get(NewProductHandler(repo), "/store/products")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("write methods are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/store/products", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestProductHandlerGet(t *testing.T) {
	h := NewProductHandler(catalog())

	t.Run("returns the product", func(t *testing.T) {
		rec := get(h, "/store/products/p1")
		require.Equal(t, http.StatusOK, rec.Code)

		var p proddom.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "Mug", p.Title)
	})

	t.Run("unknown product is a 404 payload", func(t *testing.T) {
		rec := get(h, "/store/products/ghost")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body["error"])
	})
}
