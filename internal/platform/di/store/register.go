// internal/platform/di/store/register.go
package store

import (
	"encoding/json"
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	storehttp "storefront/internal/adapters/in/http/store"
	storehandler "storefront/internal/adapters/in/http/store/handler"
	userdom "storefront/internal/domain/user"
)

// notImplemented returns a non-nil handler (so deps are never nil) for
// endpoints that are not wired yet.
func notImplemented(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "not_implemented",
			"name":  name,
		})
	})
}

// requireSession wraps handler with the session middleware (fail-closed).
// If the middleware is not initialized, it returns 503 so the bug is obvious.
func requireSession(mw *middleware.SessionMiddleware, h http.Handler, name string) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if mw == nil || mw.Resolver == nil {
		log.Printf("[store.register] ERROR: SessionMiddleware is not initialized (endpoint=%s). returning 503", name)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "session_not_initialized",
				"name":  name,
			})
		})
	}
	return mw.Handler(h)
}

// Register registers storefront routes onto mux.
// Pure DI: construct handlers, apply guards, pass into the store router.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	// ------------------------------------------------------------
	// Session middleware (token verification + resolver feed)
	// ------------------------------------------------------------
	sessionMW := &middleware.SessionMiddleware{
		Resolver: cont.SessionResolver,
	}
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		sessionMW.Verifier = cont.Infra.FirebaseAuth
	} else {
		// Requests without a bearer token still work (public routes);
		// authenticated requests will get 503 from the middleware.
		log.Printf("[store.register] WARN: FirebaseAuth is nil (bearer requests will return 503)")
	}

	// ----------------------------
	// Handlers (construct only)
	// ----------------------------
	productH := notImplemented("Product")
	signUpH := notImplemented("SignUp")
	signInH := notImplemented("SignIn")
	signOutH := notImplemented("SignOut")
	meSessionH := notImplemented("MeSession")
	meProfileH := notImplemented("MeProfile")
	cartH := notImplemented("Cart")
	themeH := notImplemented("Theme")
	adminProductH := notImplemented("AdminProduct")
	adminUserH := notImplemented("AdminUser")

	if cont.ProductRepo != nil {
		productH = storehandler.NewProductHandler(cont.ProductRepo)
	}

	if cont.UserRepo != nil {
		signInH = storehandler.NewSignInHandler(cont.UserRepo)
		meProfileH = storehandler.NewMeProfileHandler(cont.UserRepo)
		adminUserH = storehandler.NewAdminUserHandler(cont.UserRepo)
	}

	if cont.UserRepo != nil && cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		var mailer storehandler.WelcomeMailer
		if cont.Mailer != nil {
			mailer = cont.Mailer
		}
		signUpH = storehandler.NewSignUpHandler(cont.Infra.FirebaseAuth, cont.UserRepo, mailer)
	}

	if cont.SessionResolver != nil {
		var accounts storehandler.AccountAdmin
		if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
			accounts = cont.Infra.FirebaseAuth
		}
		signOutH = storehandler.NewSignOutHandler(cont.SessionResolver, accounts)
	}

	meSessionH = storehandler.NewMeSessionHandler()

	if cont.CartStore != nil && cont.ProductRepo != nil {
		cartH = storehandler.NewCartHandler(cont.CartStore, cont.ProductRepo)
	}

	if cont.Themes != nil {
		themeH = storehandler.NewThemeHandler(cont.Themes)
	}

	if cont.ProductRepo != nil {
		var uploader storehandler.ImageUploader
		if cont.Uploader != nil {
			uploader = cont.Uploader
		}
		var importer storehandler.CatalogImporter
		if cont.Importer != nil {
			importer = cont.Importer
		}
		adminProductH = storehandler.NewAdminProductHandler(cont.ProductRepo, uploader, importer)
	}

	// ----------------------------
	// Guards (decision table per route)
	// ----------------------------
	anyAuthenticated := middleware.RequireRoles()
	customerOrAdmin := middleware.RequireRoles(userdom.RoleCustomer, userdom.RoleAdmin)
	adminOnly := middleware.RequireRoles(userdom.RoleAdmin)

	deps := storehttp.Deps{
		// public (session-aware but never gated)
		Product: productH,

		// public-only
		SignUp: requireSession(sessionMW, middleware.PublicOnly(signUpH), "SignUp"),

		// authenticated
		SignIn:    requireSession(sessionMW, anyAuthenticated(signInH), "SignIn"),
		SignOut:   requireSession(sessionMW, anyAuthenticated(signOutH), "SignOut"),
		MeSession: requireSession(sessionMW, meSessionH, "MeSession"),
		MeProfile: requireSession(sessionMW, customerOrAdmin(meProfileH), "MeProfile"),
		Cart:      requireSession(sessionMW, anyAuthenticated(cartH), "Cart"),
		Theme:     requireSession(sessionMW, anyAuthenticated(themeH), "Theme"),

		// admin
		AdminProduct: requireSession(sessionMW, adminOnly(adminProductH), "AdminProduct"),
		AdminUser:    requireSession(sessionMW, adminOnly(adminUserH), "AdminUser"),
	}

	storehttp.Register(mux, deps)
	log.Printf("[boot] store routes registered")
}
