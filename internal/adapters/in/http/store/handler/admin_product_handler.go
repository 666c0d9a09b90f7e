// internal/adapters/in/http/store/handler/admin_product_handler.go
package storeHandler

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	proddom "storefront/internal/domain/product"
)

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, productID, fileName string, body io.Reader, contentType string) (string, error)
}

// CatalogImporter pulls products from the read-only external catalog.
type CatalogImporter interface {
	FetchAll(ctx context.Context, now time.Time) ([]*proddom.Product, error)
}

// AdminProductHandler serves back-office catalog management (admin guard is
// applied by the router).
//
//	GET    /admin/products
//	POST   /admin/products
//	PUT    /admin/products/{id}
//	DELETE /admin/products/{id}
//	POST   /admin/products/{id}/image
//	POST   /admin/products/import
type AdminProductHandler struct {
	repo     proddom.Repository
	uploader ImageUploader
	importer CatalogImporter
}

func NewAdminProductHandler(repo proddom.Repository, uploader ImageUploader, importer CatalogImporter) http.Handler {
	return &AdminProductHandler{repo: repo, uploader: uploader, importer: importer}
}

type adminProductRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
}

func (h *AdminProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeErr(w, http.StatusInternalServerError, "admin product handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case path == "/admin/products" && r.Method == http.MethodGet:
		h.list(w, r)
	case path == "/admin/products" && r.Method == http.MethodPost:
		h.create(w, r)
	case path == "/admin/products/import" && r.Method == http.MethodPost:
		h.importCatalog(w, r)
	case strings.HasSuffix(path, "/image") && r.Method == http.MethodPost:
		h.uploadImage(w, r, lastPathSegment(strings.TrimSuffix(path, "/image")))
	case r.Method == http.MethodPut:
		h.update(w, r, lastPathSegment(path))
	case r.Method == http.MethodDelete:
		h.delete(w, r, lastPathSegment(path))
	default:
		methodNotAllowed(w)
	}
}

func (h *AdminProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.All(r.Context())
	if err != nil {
		log.Printf("[admin_product_handler] list failed: %v", err)
		internalError(w, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *AdminProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req adminProductRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	p, err := proddom.New(
		uuid.NewString(),
		req.Title,
		req.Price,
		req.Description,
		req.Category,
		req.ImageURL,
		req.Stock,
		time.Now().UTC(),
	)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		log.Printf("[admin_product_handler] create failed id=%s: %v", p.ID, err)
		internalError(w, "failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		badRequest(w, "product id is required")
		return
	}

	cur, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("[admin_product_handler] load failed id=%s: %v", id, err)
		internalError(w, "failed to load product")
		return
	}
	if cur == nil {
		notFound(w)
		return
	}

	var req adminProductRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	next, err := proddom.New(
		id,
		req.Title,
		req.Price,
		req.Description,
		req.Category,
		req.ImageURL,
		req.Stock,
		cur.CreatedAt,
	)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	next.Rating = cur.Rating

	if err := h.repo.Update(r.Context(), next); err != nil {
		log.Printf("[admin_product_handler] update failed id=%s: %v", id, err)
		internalError(w, "failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, next)
}

func (h *AdminProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		badRequest(w, "product id is required")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		log.Printf("[admin_product_handler] delete failed id=%s: %v", id, err)
		internalError(w, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *AdminProductHandler) uploadImage(w http.ResponseWriter, r *http.Request, id string) {
	if h.uploader == nil {
		writeErr(w, http.StatusServiceUnavailable, "image upload is not configured")
		return
	}
	if id == "" {
		badRequest(w, "product id is required")
		return
	}

	cur, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("[admin_product_handler] load failed id=%s: %v", id, err)
		internalError(w, "failed to load product")
		return
	}
	if cur == nil {
		notFound(w)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequest(w, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(
		r.Context(),
		id,
		header.Filename,
		file,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		log.Printf("[admin_product_handler] upload failed id=%s: %v", id, err)
		internalError(w, "failed to upload image")
		return
	}

	if err := h.repo.SetImageURL(r.Context(), id, url); err != nil {
		log.Printf("[admin_product_handler] set image url failed id=%s: %v", id, err)
		internalError(w, "failed to save image url")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "imageUrl": url})
}

// importCatalog pulls the external catalog and upserts every product.
// Existing documents with the same id are overwritten.
func (h *AdminProductHandler) importCatalog(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeErr(w, http.StatusServiceUnavailable, "catalog import is not configured")
		return
	}

	products, err := h.importer.FetchAll(r.Context(), time.Now().UTC())
	if err != nil {
		log.Printf("[admin_product_handler] import fetch failed: %v", err)
		writeErr(w, http.StatusBadGateway, "failed to fetch external catalog")
		return
	}

	imported := 0
	for _, p := range products {
		if err := h.repo.Create(r.Context(), p); err != nil {
			log.Printf("[admin_product_handler] WARN: import upsert failed id=%s: %v", p.ID, err)
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"fetched":  len(products),
		"imported": imported,
	})
}
