// internal/adapters/in/http/store/handler/session_handler.go
package storeHandler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"storefront/internal/adapters/in/http/middleware"
	appsession "storefront/internal/application/session"
	userdom "storefront/internal/domain/user"
)

// AccountAdmin is the slice of Firebase Auth the session handlers need.
// *fbauth.Client satisfies it.
type AccountAdmin interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// WelcomeMailer sends the post-registration mail. Best-effort: a failure is
// logged, never surfaced to the client.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
}

// ------------------------------------------------------------
// POST /store/sign-up (public-only)
// ------------------------------------------------------------

// SignUpHandler creates the Firebase account plus the users/{uid} document
// (customer role) and sends the welcome mail.
type SignUpHandler struct {
	accounts AccountAdmin
	users    userdom.Repository
	mailer   WelcomeMailer
}

func NewSignUpHandler(accounts AccountAdmin, users userdom.Repository, mailer WelcomeMailer) http.Handler {
	return &SignUpHandler{accounts: accounts, users: users, mailer: mailer}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.accounts == nil || h.users == nil {
		writeErr(w, http.StatusServiceUnavailable, "sign-up is not available")
		return
	}

	var req signUpRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		badRequest(w, "email is required")
		return
	}
	if len(req.Password) < 6 {
		badRequest(w, "password must be at least 6 characters")
		return
	}

	ctx := r.Context()

	toCreate := (&fbauth.UserToCreate{}).
		Email(email).
		Password(req.Password)
	if name := strings.TrimSpace(req.FullName); name != "" {
		toCreate = toCreate.DisplayName(name)
	}

	record, err := h.accounts.CreateUser(ctx, toCreate)
	if err != nil {
		log.Printf("[signup_handler] create account failed: %v", err)
		writeErr(w, http.StatusConflict, "failed to create account")
		return
	}

	u, err := userdom.New(record.UID, email, req.FullName, time.Now().UTC())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := h.users.Create(ctx, u); err != nil {
		log.Printf("[signup_handler] create users doc failed uid=%s: %v", maskUID(record.UID), err)
		internalError(w, "failed to create user record")
		return
	}

	if h.mailer != nil {
		if err := h.mailer.SendWelcomeEmail(ctx, email, req.FullName); err != nil {
			log.Printf("[signup_handler] WARN: welcome mail failed: %v", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"user":   u,
	})
}

// ------------------------------------------------------------
// POST /store/sign-in (authenticated; session bootstrap)
// ------------------------------------------------------------

// SignInHandler is the session-bootstrap entry: with a verified token it
// ensures the users/{uid} document exists (customer role by default) and
// returns it together with the session snapshot.
type SignInHandler struct {
	users userdom.Repository
}

func NewSignInHandler(users userdom.Repository) http.Handler {
	return &SignInHandler{users: users}
}

func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.users == nil {
		writeErr(w, http.StatusServiceUnavailable, "sign-in is not available")
		return
	}

	uid, email, ok := middleware.CurrentUIDAndEmail(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := r.Context()

	u, err := h.users.GetByUID(ctx, uid)
	if err != nil {
		log.Printf("[signin_handler] user lookup failed uid=%s: %v", maskUID(uid), err)
		internalError(w, "failed to load user")
		return
	}

	created := false
	if u == nil {
		u, err = userdom.New(uid, email, "", time.Now().UTC())
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		if err := h.users.Create(ctx, u); err != nil {
			log.Printf("[signin_handler] create users doc failed uid=%s: %v", maskUID(uid), err)
			internalError(w, "failed to create user record")
			return
		}
		created = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"created": created,
		"user":    u,
		"session": middleware.SessionFrom(r),
	})
}

// ------------------------------------------------------------
// POST /store/sign-out (authenticated)
// ------------------------------------------------------------

// SignOutHandler drops the server-side session and (best-effort) revokes the
// refresh tokens so the client's next refresh fails.
type SignOutHandler struct {
	resolver *appsession.Resolver
	accounts AccountAdmin
}

func NewSignOutHandler(resolver *appsession.Resolver, accounts AccountAdmin) http.Handler {
	return &SignOutHandler{resolver: resolver, accounts: accounts}
}

func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.resolver == nil {
		writeErr(w, http.StatusServiceUnavailable, "sign-out is not available")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.resolver.NotifySignedOut(uid)

	if h.accounts != nil {
		if err := h.accounts.RevokeRefreshTokens(r.Context(), uid); err != nil {
			log.Printf("[signout_handler] WARN: revoke refresh tokens failed uid=%s: %v", maskUID(uid), err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
