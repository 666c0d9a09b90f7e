// internal/adapters/in/http/store/handler/me_handler.go
package storeHandler

import (
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	userdom "storefront/internal/domain/user"
)

// ------------------------------------------------------------
// GET /store/me/session
// ------------------------------------------------------------

// MeSessionHandler exposes the session snapshot read model
// ({principal, role, status}) so clients can drive their own guards.
type MeSessionHandler struct{}

func NewMeSessionHandler() http.Handler {
	return &MeSessionHandler{}
}

func (h *MeSessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, middleware.SessionFrom(r))
}

// ------------------------------------------------------------
// GET /store/me/profile (customer or admin)
// ------------------------------------------------------------

// MeProfileHandler returns the users/{uid} document of the caller.
type MeProfileHandler struct {
	users userdom.Repository
}

func NewMeProfileHandler(users userdom.Repository) http.Handler {
	return &MeProfileHandler{users: users}
}

func (h *MeProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.users == nil {
		writeErr(w, http.StatusInternalServerError, "profile handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.users.GetByUID(r.Context(), uid)
	if err != nil {
		log.Printf("[me_profile_handler] lookup failed uid=%s: %v", maskUID(uid), err)
		internalError(w, "failed to load profile")
		return
	}
	if u == nil {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uid":       u.UID,
		"email":     u.Email,
		"role":      u.Role,
		"fullName":  u.FullName,
		"createdAt": toRFC3339(u.CreatedAt),
	})
}
