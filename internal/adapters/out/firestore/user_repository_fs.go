// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "storefront/internal/domain/user"
)

// UserRepositoryFS implements user.Repository on Firestore.
//
// Collection design:
// - collection: users
// - docId: Firebase UID (docId is the source of truth)
// - fields: email, role, fullName, createdAt
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

// GetByUID returns (nil, nil) if not found (nil policy).
// The role resolver depends on this: an absent record must read as
// "no record", not as an error.
func (r *UserRepositoryFS) GetByUID(ctx context.Context, uid string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("user_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	u := userFromSnapshot(snap)
	return &u, nil
}

func (r *UserRepositoryFS) Create(ctx context.Context, u *userdom.User) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if u == nil {
		return errors.New("user_repository_fs: user is nil")
	}

	id := strings.TrimSpace(u.UID)
	if id == "" {
		return errors.New("user_repository_fs: user.UID is empty")
	}

	_, err := r.col().Doc(id).Set(ctx, userDocFromDomain(u))
	return err
}

// UpdateRole patches only the role field.
func (r *UserRepositoryFS) UpdateRole(ctx context.Context, uid string, role userdom.Role) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("user_repository_fs: uid is empty")
	}
	if !role.Valid() {
		return userdom.ErrInvalidRole
	}

	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "role", Value: string(role)},
	})
	return err
}

// ListOrderedByEmail returns every user ordered by email (admin listing).
func (r *UserRepositoryFS) ListOrderedByEmail(ctx context.Context) ([]userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}

	snaps, err := r.col().Query.OrderBy("email", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("user_repository_fs: list: %w", err)
	}

	out := make([]userdom.User, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, userFromSnapshot(snap))
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type userDoc struct {
	Email     string    `firestore:"email"`
	Role      string    `firestore:"role"`
	FullName  string    `firestore:"fullName"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func userDocFromDomain(u *userdom.User) userDoc {
	return userDoc{
		Email:     strings.TrimSpace(u.Email),
		Role:      string(u.Role),
		FullName:  strings.TrimSpace(u.FullName),
		CreatedAt: u.CreatedAt,
	}
}

// userFromSnapshot parses raw data tolerantly; the original web revisions
// wrote {email, role} only, so fullName/createdAt may be missing.
func userFromSnapshot(snap *firestore.DocumentSnapshot) userdom.User {
	u := userdom.User{UID: snap.Ref.ID}

	raw := snap.Data()
	if raw == nil {
		u.Role = userdom.RoleCustomer
		return u
	}

	u.Email = asString(raw["email"])
	u.Role = userdom.ParseRole(asString(raw["role"]))
	u.FullName = asString(raw["fullName"])
	if t, ok := asTime(raw["createdAt"]); ok {
		u.CreatedAt = t
	}
	return u
}
