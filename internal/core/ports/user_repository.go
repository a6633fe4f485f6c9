package ports

import (
	"context"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// UserRepository defines persistence for principals. The store enforces email
// uniqueness; Create and Update surface a violation as domain.ErrEmailTaken or
// a domain.ConstraintError.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
