// internal/adapters/in/http/store/handler/cart_handler_test.go
package storeHandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/cartstore"
	appsession "storefront/internal/application/session"
	cartdom "storefront/internal/domain/cart"
	proddom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
)

// ------------------------------------------------------------
// test fixtures
// ------------------------------------------------------------

// fakeProductRepo serves a fixed catalog from memory.
type fakeProductRepo struct {
	products map[string]*proddom.Product
	listErr  error
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*proddom.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context, params proddom.ListParams) (*proddom.Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := make([]proddom.Product, 0, len(f.products))
	for _, p := range f.products {
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		items = append(items, *p)
	}
	return &proddom.Page{Items: items, Total: len(items)}, nil
}

func (f *fakeProductRepo) All(_ context.Context) ([]proddom.Product, error) {
	items := make([]proddom.Product, 0, len(f.products))
	for _, p := range f.products {
		items = append(items, *p)
	}
	return items, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *proddom.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *proddom.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return errors.New("not found")
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) SetImageURL(_ context.Context, id, url string) error {
	p, ok := f.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.ImageURL = url
	return nil
}

// fixedVerifier accepts "token-<uid>".
type fixedVerifier struct{}

func (fixedVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	const prefix = "token-"
	if !strings.HasPrefix(idToken, prefix) {
		return nil, errors.New("bad token")
	}
	return &fbauth.Token{UID: strings.TrimPrefix(idToken, prefix)}, nil
}

type noUsers struct{}

func (noUsers) GetByUID(context.Context, string) (*userdom.User, error) { return nil, nil }

func catalog() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*proddom.Product{
		"p1": {ID: "p1", Title: "Mug", Price: 10, Category: "kitchen"},
		"p2": {ID: "p2", Title: "Lamp", Price: 5, Category: "home"},
	}}
}

// authedCartHandler builds the cart handler behind the session middleware.
func authedCartHandler(t *testing.T, store *cartstore.Store, repo proddom.Repository) http.Handler {
	t.Helper()
	resolver := appsession.NewResolver(noUsers{})
	t.Cleanup(func() { _ = resolver.Close() })
	mw := &middleware.SessionMiddleware{Verifier: fixedVerifier{}, Resolver: resolver}
	return mw.Handler(NewCartHandler(store, repo))
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer token-u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	var v cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ------------------------------------------------------------
// tests
// ------------------------------------------------------------

func TestCartHandlerAdd(t *testing.T) {
	t.Run("adds with the catalog snapshot", func(t *testing.T) {
		store := cartstore.New(nil)
		h := authedCartHandler(t, store, catalog())

		rec := do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":2}`)

		require.Equal(t, http.StatusOK, rec.Code)
		v := decodeCart(t, rec)
		require.Len(t, v.Items, 1)
		assert.Equal(t, "Mug", v.Items[0].Title)
		assert.Equal(t, 10.0, v.Items[0].UnitPrice)
		assert.Equal(t, 2, v.Items[0].Quantity)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		store := cartstore.New(nil)
		h := authedCartHandler(t, store, catalog())

		rec := do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1"}`)

		v := decodeCart(t, rec)
		require.Len(t, v.Items, 1)
		assert.Equal(t, 1, v.Items[0].Quantity)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		store := cartstore.New(nil)
		h := authedCartHandler(t, store, catalog())

		rec := do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("negative quantity is 400", func(t *testing.T) {
		store := cartstore.New(nil)
		h := authedCartHandler(t, store, catalog())

		rec := do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":-2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.Items("u1"))
	})

	t.Run("without a token the cart is unreachable", func(t *testing.T) {
		store := cartstore.New(nil)
		h := authedCartHandler(t, store, catalog())

		req := httptest.NewRequest(http.MethodGet, "/store/me/cart", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCartHandlerTotals(t *testing.T) {
	store := cartstore.New(nil)
	h := authedCartHandler(t, store, catalog())

	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":2}`)
	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p2","quantity":3}`)

	rec := do(h, http.MethodGet, "/store/me/cart", "")
	v := decodeCart(t, rec)

	assert.Equal(t, 5, v.Totals.TotalItemCount)
	assert.Equal(t, 35.0, v.Totals.TotalPrice)
}

func TestCartHandlerSetQuantity(t *testing.T) {
	store := cartstore.New(nil)
	h := authedCartHandler(t, store, catalog())

	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":2}`)

	t.Run("sets directly", func(t *testing.T) {
		rec := do(h, http.MethodPut, "/store/me/cart/items", `{"productId":"p1","quantity":7}`)
		v := decodeCart(t, rec)
		require.Len(t, v.Items, 1)
		assert.Equal(t, 7, v.Items[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		rec := do(h, http.MethodPut, "/store/me/cart/items", `{"productId":"p1","quantity":0}`)
		v := decodeCart(t, rec)
		assert.Empty(t, v.Items)
	})
}

func TestCartHandlerRemoveAndClear(t *testing.T) {
	store := cartstore.New(nil)
	h := authedCartHandler(t, store, catalog())

	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":1}`)
	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p2","quantity":1}`)

	rec := do(h, http.MethodDelete, "/store/me/cart/items?productId=p1", "")
	v := decodeCart(t, rec)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "p2", v.Items[0].ProductID)

	rec = do(h, http.MethodDelete, "/store/me/cart", "")
	v = decodeCart(t, rec)
	assert.Empty(t, v.Items)

	// clear is idempotent
	rec = do(h, http.MethodDelete, "/store/me/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandlerPersistsThrough(t *testing.T) {
	archive := &memArchive{data: map[string][]cartdom.LineItem{}}
	store := cartstore.New(archive)
	h := authedCartHandler(t, store, catalog())

	do(h, http.MethodPost, "/store/me/cart/items", `{"productId":"p1","quantity":2}`)

	require.Len(t, archive.data["u1"], 1)
	assert.Equal(t, 2, archive.data["u1"][0].Quantity)
}

type memArchive struct {
	data map[string][]cartdom.LineItem
}

func (m *memArchive) LoadAll() (map[string][]cartdom.LineItem, error) { return m.data, nil }
func (m *memArchive) Save(owner string, items []cartdom.LineItem) error {
	m.data[owner] = items
	return nil
}
func (m *memArchive) Delete(owner string) error {
	delete(m.data, owner)
	return nil
}
