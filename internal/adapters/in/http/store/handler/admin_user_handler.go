// internal/adapters/in/http/store/handler/admin_user_handler.go
package storeHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	userdom "storefront/internal/domain/user"
)

// AdminUserHandler serves back-office user management (admin guard is applied
// by the router).
//
//	GET   /admin/users        list ordered by email
//	PATCH /admin/users/{id}   role update {"role":"customer"|"admin"}
type AdminUserHandler struct {
	users userdom.Repository
}

func NewAdminUserHandler(users userdom.Repository) http.Handler {
	return &AdminUserHandler{users: users}
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

func (h *AdminUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.users == nil {
		writeErr(w, http.StatusInternalServerError, "admin user handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case path == "/admin/users" && r.Method == http.MethodGet:
		h.list(w, r)
	case r.Method == http.MethodPatch:
		h.updateRole(w, r, lastPathSegment(path))
	default:
		methodNotAllowed(w)
	}
}

func (h *AdminUserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListOrderedByEmail(r.Context())
	if err != nil {
		log.Printf("[admin_user_handler] list failed: %v", err)
		internalError(w, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
}

func (h *AdminUserHandler) updateRole(w http.ResponseWriter, r *http.Request, uid string) {
	if uid == "" {
		badRequest(w, "user id is required")
		return
	}

	var req roleUpdateRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	role := userdom.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		badRequest(w, "role must be customer or admin")
		return
	}

	if err := h.users.UpdateRole(r.Context(), uid, role); err != nil {
		if errors.Is(err, userdom.ErrInvalidRole) {
			badRequest(w, "role must be customer or admin")
			return
		}
		log.Printf("[admin_user_handler] role update failed uid=%s: %v", maskUID(uid), err)
		internalError(w, "failed to update role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"uid": uid, "role": string(role)})
}
