package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/api/middleware"
	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/infrastructure/config"
)

type memUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := *user
	created.ID = fmt.Sprintf("u%d", r.seq)
	stored := created
	r.users[created.ID] = &stored
	return &created, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memPostRepo struct{}

func (r *memPostRepo) Create(_ context.Context, _ *domain.Post) (*domain.Post, error) {
	panic("not used")
}
func (r *memPostRepo) FindByID(_ context.Context, _ string) (*domain.Post, error) {
	return nil, domain.ErrPostNotFound
}
func (r *memPostRepo) List(_ context.Context, _, _ int) ([]domain.Post, error) {
	return nil, nil
}
func (r *memPostRepo) Update(_ context.Context, _ *domain.Post) (*domain.Post, error) {
	panic("not used")
}
func (r *memPostRepo) Delete(_ context.Context, _ string) error {
	panic("not used")
}

type memAuditRepo struct{}

func (r *memAuditRepo) Insert(_ context.Context, _ *domain.AuditEvent) error { return nil }
func (r *memAuditRepo) ListByEmail(_ context.Context, _ string, _ int) ([]domain.AuditEvent, error) {
	return nil, nil
}

func serve(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return body
}

// Walks the full authenticated lifecycle against the assembled router:
// register, login, fetch the own profile, then fail to delete another
// principal without the admin role. Only one router is built per test binary
// because the prometheus middleware registers with the global registry.
func TestRouter_RegisterLoginAndDenial(t *testing.T) {
	users := newMemUserRepo()
	other, err := users.Create(context.Background(), &domain.User{
		Email:  "other@example.com",
		Role:   domain.RoleUser,
		Active: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "secret",
			JWTAlgorithm: "HS256",
			TokenTTL:     time.Hour,
		},
	}
	e, err := NewRouter(Dependencies{
		Users: users,
		Posts: &memPostRepo{},
		Audit: &memAuditRepo{},
	}, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	// Register.
	rec := serve(e, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"Secret1A"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.HeaderXTraceID) == "" {
		t.Fatalf("register: missing trace header on response")
	}

	// Login.
	rec = serve(e, http.MethodPost, "/api/auth/login",
		`{"username":"alice@example.com","password":"Secret1A"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	tok, _ := body["access_token"].(string)
	if tok == "" {
		t.Fatalf("login: no access token in %v", body)
	}
	if body["token_type"] != "bearer" || body["expires_in"] != float64(3600) {
		t.Fatalf("login: unexpected token envelope %v", body)
	}

	// Own profile.
	rec = serve(e, http.MethodGet, "/api/users/me", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	if body["email"] != "alice@example.com" {
		t.Fatalf("me: unexpected principal %v", body)
	}

	// Deleting another principal without the admin role is denied before any
	// mutation happens.
	rec = serve(e, http.MethodDelete, "/api/users/"+other.ID, "", tok)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("delete other: expected 403, got %d (%s)", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	if body["detail"] != "admin access required" {
		t.Fatalf("delete other: unexpected detail %v", body["detail"])
	}
	if body["trace_id"] == "" || body["trace_id"] == nil {
		t.Fatalf("delete other: missing trace id in error body")
	}
	if _, err := users.FindByID(context.Background(), other.ID); err != nil {
		t.Fatalf("delete other: target principal was mutated: %v", err)
	}

	// Without a token the same route is a generic 401 with the challenge
	// header.
	rec = serve(e, http.MethodGet, "/api/users/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me: expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("anonymous me: missing WWW-Authenticate challenge")
	}
	body = decodeBody(t, rec)
	if body["detail"] != "could not validate credentials" {
		t.Fatalf("anonymous me: unexpected detail %v", body["detail"])
	}
}
