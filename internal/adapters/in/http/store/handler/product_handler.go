// internal/adapters/in/http/store/handler/product_handler.go
package storeHandler

import (
	"log"
	"net/http"
	"strings"

	proddom "storefront/internal/domain/product"
)

const (
	defaultCatalogPageSize = 6
	maxCatalogPageSize     = 50
)

// ProductHandler serves the public catalog endpoints.
//
//	GET /store/products            ?category=&limit=&startAfter=
//	GET /store/products/{id}
type ProductHandler struct {
	repo proddom.Repository
}

func NewProductHandler(repo proddom.Repository) http.Handler {
	return &ProductHandler{repo: repo}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if path == "/store/products" {
		h.list(w, r)
		return
	}
	h.get(w, r, lastPathSegment(path))
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := parseIntDefault(q.Get("limit"), defaultCatalogPageSize)
	if limit < 1 {
		limit = defaultCatalogPageSize
	}
	if limit > maxCatalogPageSize {
		limit = maxCatalogPageSize
	}

	page, err := h.repo.List(r.Context(), proddom.ListParams{
		Category:   strings.TrimSpace(q.Get("category")),
		Limit:      limit,
		StartAfter: strings.TrimSpace(q.Get("startAfter")),
	})
	if err != nil {
		log.Printf("[product_handler] list failed: %v", err)
		internalError(w, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		badRequest(w, "product id is required")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("[product_handler] get failed id=%s: %v", id, err)
		internalError(w, "failed to load product")
		return
	}
	if p == nil {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
