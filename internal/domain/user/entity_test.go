// internal/domain/user/entity_test.go
package user

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Now().UTC()

	t.Run("defaults to the unprivileged role", func(t *testing.T) {
		u, err := New("u1", "a@example.com", "Alice", now)
		require.NoError(t, err)
		assert.Equal(t, RoleCustomer, u.Role)
	})

	t.Run("rejects empty uid and bad emails", func(t *testing.T) {
		_, err := New("  ", "a@example.com", "", now)
		assert.ErrorIs(t, err, ErrInvalidID)

		_, err = New("u1", "not-an-email", "", now)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("truncates overlong names", func(t *testing.T) {
		u, err := New("u1", "a@example.com", strings.Repeat("x", 300), now)
		require.NoError(t, err)
		assert.Len(t, []rune(u.FullName), MaxNameLength)
	})
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole("  ADMIN "))
	assert.Equal(t, RoleCustomer, ParseRole("customer"))
	// malformed stored roles degrade to customer, never to admin
	assert.Equal(t, RoleCustomer, ParseRole("root"))
	assert.Equal(t, RoleCustomer, ParseRole(""))
}

func TestSetRole(t *testing.T) {
	u, err := New("u1", "a@example.com", "", time.Now())
	require.NoError(t, err)

	require.NoError(t, u.SetRole(RoleAdmin))
	assert.Equal(t, RoleAdmin, u.Role)

	assert.ErrorIs(t, u.SetRole(Role("superuser")), ErrInvalidRole)
	assert.ErrorIs(t, u.SetRole(RoleUnknown), ErrInvalidRole)
}
