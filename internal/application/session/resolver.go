// internal/application/session/resolver.go
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	userdom "storefront/internal/domain/user"
)

// Status is the session-resolution state exposed to guards.
type Status string

const (
	// StatusInitializing: no session-change notification received yet
	// (or the role lookup for an authenticated principal is still running).
	StatusInitializing    Status = "initializing"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Principal is the authenticated identity independent of role.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Snapshot is the {principal, role, status} read model.
// Role stays RoleUnknown until the lookup completes; guards must not grant
// role-gated access on an unknown role.
type Snapshot struct {
	Principal *Principal   `json:"principal,omitempty"`
	Role      userdom.Role `json:"role,omitempty"`
	Status    Status       `json:"status"`
}

// RoleReader resolves the stored role for a uid.
// Nil policy: (nil, nil) when no users/{uid} record exists.
type RoleReader interface {
	GetByUID(ctx context.Context, uid string) (*userdom.User, error)
}

var ErrResolverClosed = errors.New("session: resolver closed")

type sessionState struct {
	snap     Snapshot
	resolved chan struct{} // closed once the role lookup finished
}

// Resolver translates identity-provider session-change notifications into
// stable snapshots. It runs for the lifetime of the app: every notification
// for an authenticated principal fires an asynchronous role lookup, and an
// absent or failed users record resolves to the unprivileged role instead
// of failing the sign-in.
//
// Close cancels in-flight lookups and waits for them, so no state update
// can land after teardown.
type Resolver struct {
	roles RoleReader

	mu       sync.Mutex
	sessions map[string]*sessionState
	subs     map[int]func(Snapshot)
	nextSub  int
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewResolver(roles RoleReader) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		roles:    roles,
		sessions: map[string]*sessionState{},
		subs:     map[int]func(Snapshot){},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NotifySignedIn is the session-change notification for a signed-in
// principal. The role lookup is issued immediately and asynchronously;
// until it resolves the snapshot stays Authenticated with RoleUnknown.
// Re-notifying an already-resolved principal is cheap and does not reset
// the resolved role.
func (r *Resolver) NotifySignedIn(uid, email string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("session: uid is empty")
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrResolverClosed
	}

	if st, ok := r.sessions[uid]; ok && st.snap.Status == StatusAuthenticated {
		// keep resolved role; refresh email if the provider sent one
		if email != "" && st.snap.Principal != nil {
			st.snap.Principal.Email = strings.TrimSpace(email)
		}
		r.mu.Unlock()
		return nil
	}

	st := &sessionState{
		snap: Snapshot{
			Principal: &Principal{UID: uid, Email: strings.TrimSpace(email)},
			Role:      userdom.RoleUnknown,
			Status:    StatusAuthenticated,
		},
		resolved: make(chan struct{}),
	}
	r.sessions[uid] = st
	snap := st.snap
	r.mu.Unlock()

	r.notify(snap)

	r.wg.Add(1)
	go r.resolveRole(uid, st)
	return nil
}

// NotifySignedOut is the session-change notification for sign-out or
// session expiry.
func (r *Resolver) NotifySignedOut(uid string) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, uid)
	r.mu.Unlock()

	r.notify(Snapshot{Status: StatusUnauthenticated})
}

// SnapshotFor returns the current snapshot for uid.
// An unseen uid reads as Unauthenticated.
func (r *Resolver) SnapshotFor(uid string) Snapshot {
	uid = strings.TrimSpace(uid)

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[uid]
	if !ok {
		return Snapshot{Status: StatusUnauthenticated}
	}
	return st.snap
}

// WaitResolved blocks until the role lookup for uid finished (or ctx is
// done) and returns the resulting snapshot. For an unseen uid it returns the
// Unauthenticated snapshot immediately.
func (r *Resolver) WaitResolved(ctx context.Context, uid string) Snapshot {
	uid = strings.TrimSpace(uid)

	r.mu.Lock()
	st, ok := r.sessions[uid]
	r.mu.Unlock()

	if !ok {
		return Snapshot{Status: StatusUnauthenticated}
	}

	select {
	case <-st.resolved:
	case <-ctx.Done():
	case <-r.ctx.Done():
	}
	return r.SnapshotFor(uid)
}

// Subscribe registers fn for snapshot-change notifications and returns the
// matching unsubscribe.
func (r *Resolver) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Close tears the resolver down: cancels in-flight role lookups, waits for
// them, and drops all sessions and subscribers.
func (r *Resolver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.subs = map[int]func(Snapshot){}
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	r.sessions = map[string]*sessionState{}
	r.mu.Unlock()
	return nil
}

// resolveRole looks up users/{uid} and finalizes the snapshot's role.
// Absent record or lookup failure -> RoleCustomer (safe default).
func (r *Resolver) resolveRole(uid string, st *sessionState) {
	defer r.wg.Done()
	defer close(st.resolved)

	role := userdom.RoleCustomer
	if r.roles != nil {
		u, err := r.roles.GetByUID(r.ctx, uid)
		switch {
		case err != nil:
			log.Printf("[session] WARN: role lookup failed uid=%s: %v (defaulting to %s)", maskUID(uid), err, userdom.RoleCustomer)
		case u == nil:
			log.Printf("[session] no users record uid=%s (defaulting to %s)", maskUID(uid), userdom.RoleCustomer)
		case u.Role.Valid():
			role = u.Role
		}
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	cur, ok := r.sessions[uid]
	if !ok || cur != st {
		// signed out (or replaced) while resolving; drop the result
		r.mu.Unlock()
		return
	}
	st.snap.Role = role
	snap := st.snap
	r.mu.Unlock()

	r.notify(snap)
}

func (r *Resolver) notify(snap Snapshot) {
	r.mu.Lock()
	fns := make([]func(Snapshot), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// maskUID keeps raw uids out of logs.
func maskUID(uid string) string {
	if len(uid) <= 6 {
		return "***"
	}
	return "***" + uid[len(uid)-6:]
}
