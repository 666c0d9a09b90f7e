// internal/adapters/in/http/store/router.go
package store

import (
	"encoding/json"
	"log"
	"net/http"
)

// Deps is the storefront handler set. Every field must be non-nil when
// Register is called; the DI layer substitutes notImplemented handlers for
// anything it could not wire.
type Deps struct {
	// public
	Product http.Handler

	// public-only (sign-up form)
	SignUp http.Handler

	// authenticated
	SignIn    http.Handler
	SignOut   http.Handler
	MeSession http.Handler
	MeProfile http.Handler
	Cart      http.Handler
	Theme     http.Handler

	// admin
	AdminProduct http.Handler
	AdminUser    http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so the process
// keeps serving).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[store.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog (public)
	handleSafe(mux, "/store/products", deps.Product, "Product")
	handleSafe(mux, "/store/products/", deps.Product, "Product")

	// session lifecycle
	handleSafe(mux, "/store/sign-up", deps.SignUp, "SignUp")
	handleSafe(mux, "/store/sign-in", deps.SignIn, "SignIn")
	handleSafe(mux, "/store/sign-out", deps.SignOut, "SignOut")

	// me
	handleSafe(mux, "/store/me/session", deps.MeSession, "MeSession")
	handleSafe(mux, "/store/me/profile", deps.MeProfile, "MeProfile")
	handleSafe(mux, "/store/me/cart", deps.Cart, "Cart")
	handleSafe(mux, "/store/me/cart/", deps.Cart, "Cart")
	handleSafe(mux, "/store/me/theme", deps.Theme, "Theme")

	// everything else is a JSON 404 (longer patterns above win)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
	})

	// back office
	handleSafe(mux, "/admin/products", deps.AdminProduct, "AdminProduct")
	handleSafe(mux, "/admin/products/", deps.AdminProduct, "AdminProduct")
	handleSafe(mux, "/admin/users", deps.AdminUser, "AdminUser")
	handleSafe(mux, "/admin/users/", deps.AdminUser, "AdminUser")

	log.Printf("[store.router] routes registered")
}
