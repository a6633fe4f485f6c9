package ports

import (
	"context"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// PostRepository defines persistence for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, skip, limit int) ([]domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostCache is a read-through cache for post listings. A failed lookup is a
// miss, never an error surfaced to the caller.
type PostCache interface {
	GetList(ctx context.Context, skip, limit int) ([]domain.Post, bool, error)
	SetList(ctx context.Context, skip, limit int, posts []domain.Post) error
	Invalidate(ctx context.Context) error
}
