// internal/adapters/in/http/store/handler/cart_handler.go
package storeHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/cartstore"
	cartdom "storefront/internal/domain/cart"
	proddom "storefront/internal/domain/product"
)

// CartHandler serves the authenticated cart endpoints.
//
//	GET    /store/me/cart        current items + derived totals
//	DELETE /store/me/cart        clear (idempotent)
//	POST   /store/me/cart/items  add {productId, quantity}
//	PUT    /store/me/cart/items  set quantity {productId, quantity} (total op)
//	DELETE /store/me/cart/items  remove ?productId= or {productId}
type CartHandler struct {
	store   *cartstore.Store
	catalog proddom.Repository
}

func NewCartHandler(store *cartstore.Store, catalog proddom.Repository) http.Handler {
	return &CartHandler{store: store, catalog: catalog}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartView struct {
	Items  []cartdom.LineItem `json:"items"`
	Totals cartdom.Totals     `json:"totals"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isItems := strings.HasSuffix(path, "/items")

	switch {
	case !isItems && r.Method == http.MethodGet:
		h.view(w, uid)
	case !isItems && r.Method == http.MethodDelete:
		h.clear(w, uid)
	case isItems && r.Method == http.MethodPost:
		h.add(w, r, uid)
	case isItems && r.Method == http.MethodPut:
		h.setQuantity(w, r, uid)
	case isItems && r.Method == http.MethodDelete:
		h.remove(w, r, uid)
	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) view(w http.ResponseWriter, uid string) {
	writeJSON(w, http.StatusOK, cartView{
		Items:  h.store.Items(uid),
		Totals: h.store.Totals(uid),
	})
}

func (h *CartHandler) clear(w http.ResponseWriter, uid string) {
	if err := h.store.Clear(uid); err != nil {
		log.Printf("[cart_handler] clear failed uid=%s: %v", maskUID(uid), err)
		internalError(w, "failed to clear cart")
		return
	}
	h.view(w, uid)
}

// add fetches the catalog snapshot for the product and merges it in. The
// snapshot fields (title, image, unit price) are frozen at first add.
func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, uid string) {
	if h.catalog == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	pid := strings.TrimSpace(req.ProductID)
	if pid == "" {
		badRequest(w, "productId is required")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	p, err := h.catalog.GetByID(r.Context(), pid)
	if err != nil {
		log.Printf("[cart_handler] product lookup failed id=%s: %v", pid, err)
		internalError(w, "failed to load product")
		return
	}
	if p == nil {
		notFound(w)
		return
	}

	snapshot := cartdom.LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		UnitPrice: p.Price,
	}
	if err := h.store.AddItem(uid, snapshot, qty); err != nil {
		if errors.Is(err, cartdom.ErrInvalidQuantity) {
			badRequest(w, "quantity must be >= 1")
			return
		}
		log.Printf("[cart_handler] add failed uid=%s id=%s: %v", maskUID(uid), pid, err)
		internalError(w, "failed to add item")
		return
	}

	h.view(w, uid)
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	pid := strings.TrimSpace(req.ProductID)
	if pid == "" {
		badRequest(w, "productId is required")
		return
	}

	// qty < 1 removes the line entirely (total operation)
	if err := h.store.UpdateQuantity(uid, pid, req.Quantity); err != nil {
		log.Printf("[cart_handler] set quantity failed uid=%s id=%s: %v", maskUID(uid), pid, err)
		internalError(w, "failed to update quantity")
		return
	}

	h.view(w, uid)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request, uid string) {
	pid := strings.TrimSpace(r.URL.Query().Get("productId"))
	if pid == "" {
		var req cartItemRequest
		if err := readJSON(r, &req); err == nil {
			pid = strings.TrimSpace(req.ProductID)
		}
	}
	if pid == "" {
		badRequest(w, "productId is required")
		return
	}

	if err := h.store.RemoveItem(uid, pid); err != nil {
		log.Printf("[cart_handler] remove failed uid=%s id=%s: %v", maskUID(uid), pid, err)
		internalError(w, "failed to remove item")
		return
	}

	h.view(w, uid)
}
