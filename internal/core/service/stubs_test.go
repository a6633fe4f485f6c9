package service

import (
	"context"
	"fmt"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// In-memory stand-ins for the mongo repositories.

type stubUserRepo struct {
	users map[string]*domain.User // keyed by id
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubPostRepo struct {
	posts map[string]*domain.Post
	seq   int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.seq++
	created := clonePost(post)
	created.ID = fmt.Sprintf("p%d", r.seq)
	r.posts[created.ID] = clonePost(created)
	return clonePost(created), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) List(_ context.Context, skip, limit int) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// stubPostCache records cache traffic so tests can assert read-through and
// invalidation behaviour.
type stubPostCache struct {
	entries     map[string][]domain.Post
	invalidated int
}

func newStubPostCache() *stubPostCache {
	return &stubPostCache{entries: make(map[string][]domain.Post)}
}

func (c *stubPostCache) cacheKey(skip, limit int) string {
	return fmt.Sprintf("%d:%d", skip, limit)
}

func (c *stubPostCache) GetList(_ context.Context, skip, limit int) ([]domain.Post, bool, error) {
	posts, ok := c.entries[c.cacheKey(skip, limit)]
	return posts, ok, nil
}

func (c *stubPostCache) SetList(_ context.Context, skip, limit int, posts []domain.Post) error {
	c.entries[c.cacheKey(skip, limit)] = posts
	return nil
}

func (c *stubPostCache) Invalidate(_ context.Context) error {
	c.entries = make(map[string][]domain.Post)
	c.invalidated++
	return nil
}

// recordingAudit captures audit events synchronously.
type recordingAudit struct {
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(event domain.AuditEvent) {
	a.events = append(a.events, event)
}
