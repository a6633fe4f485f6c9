package ports

import (
	"context"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// UserUpdateInput carries the optional fields of a profile patch. Nil means
// "leave unchanged". Active and Role are honored only for admin callers.
type UserUpdateInput struct {
	Email  *string
	Active *bool
	Role   *string
}

// UserService implements user lookup and admin/self mutations.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, caller *domain.User, id string, input UserUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
}
