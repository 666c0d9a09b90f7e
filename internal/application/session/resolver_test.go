// internal/application/session/resolver_test.go
package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdom "storefront/internal/domain/user"
)

// fakeRoleReader serves canned users; nil user + nil error models an absent
// record (the repository nil policy).
type fakeRoleReader struct {
	mu    sync.Mutex
	users map[string]*userdom.User
	err   error
	block chan struct{} // when set, GetByUID waits until closed
}

func (f *fakeRoleReader) GetByUID(ctx context.Context, uid string) (*userdom.User, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.users[uid], nil
}

func waitSnap(t *testing.T, r *Resolver, uid string) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return r.WaitResolved(ctx, uid)
}

func TestResolverRoleResolution(t *testing.T) {
	t.Run("stored admin role resolves", func(t *testing.T) {
		r := NewResolver(&fakeRoleReader{users: map[string]*userdom.User{
			"u1": {UID: "u1", Role: userdom.RoleAdmin},
		}})
		defer r.Close()

		require.NoError(t, r.NotifySignedIn("u1", "a@example.com"))
		snap := waitSnap(t, r, "u1")

		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.Equal(t, userdom.RoleAdmin, snap.Role)
		require.NotNil(t, snap.Principal)
		assert.Equal(t, "u1", snap.Principal.UID)
	})

	t.Run("missing record defaults to customer", func(t *testing.T) {
		r := NewResolver(&fakeRoleReader{users: map[string]*userdom.User{}})
		defer r.Close()

		require.NoError(t, r.NotifySignedIn("u1", ""))
		snap := waitSnap(t, r, "u1")

		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.Equal(t, userdom.RoleCustomer, snap.Role)
	})

	t.Run("lookup failure defaults to customer, not sign-in failure", func(t *testing.T) {
		r := NewResolver(&fakeRoleReader{err: errors.New("backend down")})
		defer r.Close()

		require.NoError(t, r.NotifySignedIn("u1", ""))
		snap := waitSnap(t, r, "u1")

		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.Equal(t, userdom.RoleCustomer, snap.Role)
	})

	t.Run("role is unknown while the lookup is in flight", func(t *testing.T) {
		block := make(chan struct{})
		r := NewResolver(&fakeRoleReader{
			users: map[string]*userdom.User{"u1": {UID: "u1", Role: userdom.RoleAdmin}},
			block: block,
		})
		defer r.Close()

		require.NoError(t, r.NotifySignedIn("u1", ""))

		snap := r.SnapshotFor("u1")
		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.Equal(t, userdom.RoleUnknown, snap.Role)

		close(block)
		snap = waitSnap(t, r, "u1")
		assert.Equal(t, userdom.RoleAdmin, snap.Role)
	})
}

func TestResolverSignOut(t *testing.T) {
	r := NewResolver(&fakeRoleReader{users: map[string]*userdom.User{}})
	defer r.Close()

	require.NoError(t, r.NotifySignedIn("u1", ""))
	waitSnap(t, r, "u1")

	r.NotifySignedOut("u1")

	snap := r.SnapshotFor("u1")
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.Principal)
}

func TestResolverUnseenUID(t *testing.T) {
	r := NewResolver(&fakeRoleReader{})
	defer r.Close()

	snap := r.SnapshotFor("ghost")
	assert.Equal(t, StatusUnauthenticated, snap.Status)

	// WaitResolved must not block for an unseen uid
	snap = waitSnap(t, r, "ghost")
	assert.Equal(t, StatusUnauthenticated, snap.Status)
}

func TestResolverSubscribe(t *testing.T) {
	r := NewResolver(&fakeRoleReader{users: map[string]*userdom.User{}})
	defer r.Close()

	var mu sync.Mutex
	var snaps []Snapshot
	unsubscribe := r.Subscribe(func(s Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	require.NoError(t, r.NotifySignedIn("u1", ""))
	waitSnap(t, r, "u1")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snaps) >= 2 // sign-in (role unknown) + role resolved
	}, time.Second, 10*time.Millisecond)

	unsubscribe()
	before := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(snaps)
	}()

	r.NotifySignedOut("u1")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, before, len(snaps))
	mu.Unlock()
}

func TestResolverClose(t *testing.T) {
	t.Run("close cancels in-flight lookups and rejects new sign-ins", func(t *testing.T) {
		block := make(chan struct{})
		r := NewResolver(&fakeRoleReader{block: block})

		require.NoError(t, r.NotifySignedIn("u1", ""))

		done := make(chan struct{})
		go func() {
			_ = r.Close()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Close did not return; in-flight lookup was not cancelled")
		}

		assert.ErrorIs(t, r.NotifySignedIn("u2", ""), ErrResolverClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		r := NewResolver(&fakeRoleReader{})
		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
	})
}
