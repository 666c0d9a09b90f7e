// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	appsession "storefront/internal/application/session"
)

// TokenVerifier is the slice of Firebase Auth that SessionMiddleware needs.
// *fbauth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

type ctxKey struct{ name string }

var ctxKeySession = ctxKey{name: "session"}

// roleWaitTimeout bounds how long a request blocks on an in-flight role
// lookup. On timeout the snapshot still carries RoleUnknown and role-gated
// guards answer 503 + Retry-After instead of granting or denying.
const roleWaitTimeout = 2 * time.Second

// SessionMiddleware verifies the Firebase ID token (when present), feeds the
// session resolver, and stores the resulting session snapshot in the request
// context.
//
// - No Authorization header: the request proceeds with an Unauthenticated
//   snapshot (public routes stay reachable).
// - Invalid bearer token: 401.
type SessionMiddleware struct {
	Verifier TokenVerifier
	Resolver *appsession.Resolver
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Resolver == nil {
			http.Error(w, "session middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			ctx := context.WithValue(r.Context(), ctxKeySession,
				appsession.Snapshot{Status: appsession.StatusUnauthenticated})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		if m.Verifier == nil {
			http.Error(w, "auth verifier not initialized", http.StatusServiceUnavailable)
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		// email (optional)
		email := ""
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 {
				email = strings.TrimSpace(e)
			}
		}

		if err := m.Resolver.NotifySignedIn(uid, email); err != nil {
			log.Printf("[session_mw] WARN: NotifySignedIn failed: %v", err)
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}

		// Bounded wait for the role lookup. A timeout leaves RoleUnknown in
		// the snapshot; guards turn that into 503 + Retry-After.
		waitCtx, cancel := context.WithTimeout(r.Context(), roleWaitTimeout)
		snap := m.Resolver.WaitResolved(waitCtx, uid)
		cancel()

		ctx := context.WithValue(r.Context(), ctxKeySession, snap)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFrom returns the session snapshot stored by SessionMiddleware.
// Requests that never passed the middleware read as Initializing, which
// guards never treat as a grant.
func SessionFrom(r *http.Request) appsession.Snapshot {
	v := r.Context().Value(ctxKeySession)
	snap, ok := v.(appsession.Snapshot)
	if !ok {
		return appsession.Snapshot{Status: appsession.StatusInitializing}
	}
	return snap
}

// CurrentUID returns the authenticated uid, if any.
func CurrentUID(r *http.Request) (string, bool) {
	snap := SessionFrom(r)
	if snap.Status != appsession.StatusAuthenticated || snap.Principal == nil {
		return "", false
	}
	uid := strings.TrimSpace(snap.Principal.UID)
	if uid == "" {
		return "", false
	}
	return uid, true
}

// CurrentUIDAndEmail returns uid/email (email can be empty).
func CurrentUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	snap := SessionFrom(r)
	if snap.Status != appsession.StatusAuthenticated || snap.Principal == nil {
		return "", "", false
	}
	uid = strings.TrimSpace(snap.Principal.UID)
	if uid == "" {
		return "", "", false
	}
	return uid, strings.TrimSpace(snap.Principal.Email), true
}
