package ports

import (
	"context"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// PostCreateInput carries the fields of a new post.
type PostCreateInput struct {
	Title   string
	Content string
}

// PostUpdateInput carries the optional fields of a post update. Nil means
// "leave unchanged".
type PostUpdateInput struct {
	Title   *string
	Content *string
}

// PostService implements post CRUD with ownership enforcement on mutations.
type PostService interface {
	List(ctx context.Context, skip, limit int) ([]domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, author *domain.User, input PostCreateInput) (*domain.Post, error)
	Update(ctx context.Context, caller *domain.User, id string, input PostUpdateInput) (*domain.Post, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
}
