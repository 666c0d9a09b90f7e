// internal/adapters/in/http/middleware/guard.go
package middleware

import (
	"encoding/json"
	"net/http"

	appguard "storefront/internal/application/guard"
	userdom "storefront/internal/domain/user"
)

// RequireRoles gates a route on the session snapshot.
//
// Decision mapping (API rendition of the route guard):
//   - Wait                 -> 503 + Retry-After: 1 (state not known yet; retry, do not redirect)
//   - RedirectLogin        -> 401 {"error":"unauthenticated","redirect":"/login"}
//   - RedirectUnauthorized -> 403 {"error":"forbidden","redirect":"/unauthorized"}
//   - Allow                -> next
//
// Empty required means "any authenticated principal".
func RequireRoles(required ...userdom.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := SessionFrom(r)

			switch appguard.Decide(snap, required) {
			case appguard.DecisionAllow:
				next.ServeHTTP(w, r)
			case appguard.DecisionWait:
				writeGuardWait(w)
			case appguard.DecisionRedirectLogin:
				writeGuardJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "unauthenticated",
					"redirect": appguard.LoginPath,
				})
			case appguard.DecisionRedirectUnauthorized:
				writeGuardJSON(w, http.StatusForbidden, map[string]string{
					"error":    "forbidden",
					"redirect": appguard.UnauthorizedPath,
				})
			default:
				writeGuardWait(w)
			}
		})
	}
}

// PublicOnly gates routes meant only for signed-out visitors (sign-up).
// An authenticated principal gets its landing page instead of the form.
func PublicOnly(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := SessionFrom(r)

		decision, landing := appguard.DecidePublicOnly(snap)
		switch decision {
		case appguard.DecisionAllow:
			next.ServeHTTP(w, r)
		case appguard.DecisionRedirectLanding:
			writeGuardJSON(w, http.StatusOK, map[string]string{
				"redirect": landing,
			})
		default:
			writeGuardWait(w)
		}
	})
}

func writeGuardWait(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	writeGuardJSON(w, http.StatusServiceUnavailable, map[string]string{
		"error": "session_initializing",
	})
}

func writeGuardJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
