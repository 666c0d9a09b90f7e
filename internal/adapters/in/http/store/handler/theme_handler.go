// internal/adapters/in/http/store/handler/theme_handler.go
package storeHandler

import (
	"errors"
	"log"
	"net/http"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/adapters/out/localstore"
)

// ThemeHandler serves the per-user theme preference.
//
//	GET /store/me/theme  -> {"theme":"light"|"dark"} (absent -> light)
//	PUT /store/me/theme  <- {"theme":"light"|"dark"}
type ThemeHandler struct {
	themes *localstore.ThemeStore
}

func NewThemeHandler(themes *localstore.ThemeStore) http.Handler {
	return &ThemeHandler{themes: themes}
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.themes == nil {
		writeErr(w, http.StatusInternalServerError, "theme handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"theme": h.themes.Get(uid)})
	case http.MethodPut:
		var req themeRequest
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json body")
			return
		}
		if err := h.themes.Set(uid, req.Theme); err != nil {
			if errors.Is(err, localstore.ErrInvalidTheme) {
				badRequest(w, "theme must be light or dark")
				return
			}
			log.Printf("[theme_handler] set failed uid=%s: %v", maskUID(uid), err)
			internalError(w, "failed to save theme")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": h.themes.Get(uid)})
	default:
		methodNotAllowed(w)
	}
}
