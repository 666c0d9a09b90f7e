// internal/domain/user/repository_port.go
package user

import "context"

// Repository is the users collection port.
// Read methods follow the nil policy: (nil, nil) when the doc is absent.
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateRole(ctx context.Context, uid string, role Role) error
	ListOrderedByEmail(ctx context.Context) ([]User, error)
}
