package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/core/ports"
)

// PostService implements post CRUD. Listing is read-through cached; every
// mutation invalidates the cache after the write commits.
type PostService struct {
	posts  ports.PostRepository
	cache  ports.PostCache
	logger zerolog.Logger
}

// NewPostService builds a PostService. cache may be nil to disable caching.
func NewPostService(posts ports.PostRepository, cache ports.PostCache, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, cache: cache, logger: logger}
}

func (s *PostService) List(ctx context.Context, skip, limit int) ([]domain.Post, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	if s.cache != nil {
		if posts, ok, err := s.cache.GetList(ctx, skip, limit); err == nil && ok {
			return posts, nil
		}
	}

	posts, err := s.posts.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, skip, limit, posts); err != nil {
			s.logger.Warn().Err(err).Msg("post list cache write failed")
		}
	}

	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, author *domain.User, input ports.PostCreateInput) (*domain.Post, error) {
	now := time.Now().UTC()
	created, err := s.posts.Create(ctx, &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info().Str("post_id", created.ID).Str("author_id", author.ID).Msg("post created")
	return created, nil
}

func (s *PostService) Update(ctx context.Context, caller *domain.User, id string, input ports.PostUpdateInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.IsAuthorized(caller, post.AuthorID, domain.ActionWrite) {
		return nil, domain.NotAuthorized("update", "post")
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	post.UpdatedAt = time.Now().UTC()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, caller *domain.User, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.IsAuthorized(caller, post.AuthorID, domain.ActionDelete) {
		return domain.NotAuthorized("delete", "post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info().Str("post_id", id).Str("by", caller.ID).Msg("post deleted")
	return nil
}

func (s *PostService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("post list cache invalidation failed")
	}
}
