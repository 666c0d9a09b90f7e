// internal/adapters/out/catalog/http_client_test.go
package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll(t *testing.T) {
	t.Run("maps upstream products into the domain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":1,"title":"Hat","price":3.5,"description":"d","category":"apparel",
				 "image":"https://img/1.png","rating":{"rate":4.2,"count":7}},
				{"id":2,"title":"","price":1,"category":"junk"}
			]`))
		}))
		defer srv.Close()

		c := NewHTTPClient(srv.URL)
		now := time.Now().UTC()

		products, err := c.FetchAll(context.Background(), now)
		require.NoError(t, err)

		// the empty-title entry fails domain validation and is skipped
		require.Len(t, products, 1)
		p := products[0]
		assert.Equal(t, "ext-1", p.ID)
		assert.Equal(t, "Hat", p.Title)
		assert.Equal(t, 3.5, p.Price)
		assert.Equal(t, "apparel", p.Category)
		assert.Equal(t, 4.2, p.Rating.Average)
		assert.Equal(t, 7, p.Rating.Count)
		assert.Equal(t, defaultImportStock, p.Stock)
		assert.Equal(t, now, p.CreatedAt)
	})

	t.Run("non-200 upstream is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL).FetchAll(context.Background(), time.Now())
		assert.Error(t, err)
	})

	t.Run("empty base url is rejected", func(t *testing.T) {
		_, err := NewHTTPClient("").FetchAll(context.Background(), time.Now())
		assert.Error(t, err)
	})
}
