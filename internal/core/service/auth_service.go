package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/scribehub/identity-api/internal/api/metrics"
	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/core/ports"
	"github.com/scribehub/identity-api/internal/token"
	"github.com/scribehub/identity-api/internal/tracing"
)

// AuthService implements registration and login. It owns password hashing and
// token issuance; claim validation happens in the transport middleware.
type AuthService struct {
	users  ports.UserRepository
	issuer *token.Issuer
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, issuer *token.Issuer, audit ports.AuditRecorder, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, audit: audit, logger: logger}
}

// Register creates a principal with the default role. The password is hashed
// before it ever reaches the store; a duplicate email surfaces as
// domain.ErrEmailTaken from the repository.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.record(ctx, email, domain.AuditRegister)
	s.logger.Info().Str("user_id", created.ID).Msg("principal registered")

	return created, nil
}

// Login verifies credentials and returns a signed access token. An unknown
// email and a wrong password produce the same error so callers cannot probe
// which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			s.record(ctx, email, domain.AuditLoginFailed)
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.record(ctx, email, domain.AuditLoginFailed)
		return "", domain.ErrInvalidCredentials
	}

	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return "", domain.ErrAccountDisabled
	}

	signed, err := s.issuer.Issue(user.Email, user.Role, time.Now().UTC())
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(ctx, email, domain.AuditLogin)
	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")

	return signed, nil
}

func (s *AuthService) record(ctx context.Context, email, action string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Email:     email,
		Action:    action,
		TraceID:   tracing.FromContext(ctx),
		Timestamp: time.Now().UTC(),
	})
}
