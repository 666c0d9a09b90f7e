// internal/application/guard/guard.go
package guard

import (
	"storefront/internal/application/session"
	userdom "storefront/internal/domain/user"
)

// Decision is a pure routing decision; it carries no side effects.
type Decision string

const (
	// DecisionWait: session state is not known yet; render a loading
	// placeholder, do NOT redirect (avoids the flash-redirect before the
	// session is resolved).
	DecisionWait Decision = "wait"

	DecisionAllow                Decision = "allow"
	DecisionRedirectLogin        Decision = "redirect_login"
	DecisionRedirectUnauthorized Decision = "redirect_unauthorized"

	// DecisionRedirectLanding is the public-only inverse: an authenticated
	// principal is sent to its role-appropriate landing page.
	DecisionRedirectLanding Decision = "redirect_landing"
)

// Landing targets for the public-only guard.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	AdminLanding     = "/admin"
	CustomerLanding  = "/products"
)

// Decide gates a role-protected route.
//
//	Initializing                         -> Wait
//	Unauthenticated                      -> RedirectLogin
//	Authenticated, required empty        -> Allow
//	Authenticated, role unknown          -> Wait (role still resolving)
//	Authenticated, role in required      -> Allow
//	Authenticated, role not in required  -> RedirectUnauthorized
func Decide(snap session.Snapshot, required []userdom.Role) Decision {
	switch snap.Status {
	case session.StatusInitializing:
		return DecisionWait
	case session.StatusUnauthenticated:
		return DecisionRedirectLogin
	case session.StatusAuthenticated:
		// fallthrough below
	default:
		// unknown status is treated as not-yet-known, never as a grant
		return DecisionWait
	}

	if len(required) == 0 {
		return DecisionAllow
	}
	if snap.Role == userdom.RoleUnknown {
		return DecisionWait
	}
	for _, r := range required {
		if snap.Role == r {
			return DecisionAllow
		}
	}
	return DecisionRedirectUnauthorized
}

// DecidePublicOnly gates public-only routes (login/register): an already
// authenticated principal is sent to its role-appropriate landing page
// instead of the public form.
//
// The returned redirect is non-empty only for DecisionRedirectLanding.
func DecidePublicOnly(snap session.Snapshot) (Decision, string) {
	switch snap.Status {
	case session.StatusUnauthenticated:
		return DecisionAllow, ""
	case session.StatusAuthenticated:
		if snap.Role == userdom.RoleUnknown {
			// wait for the role before picking a landing page
			return DecisionWait, ""
		}
		if snap.Role == userdom.RoleAdmin {
			return DecisionRedirectLanding, AdminLanding
		}
		return DecisionRedirectLanding, CustomerLanding
	default:
		return DecisionWait, ""
	}
}
