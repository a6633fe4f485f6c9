package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/core/ports"
)

// UserService implements lookup and mutation of principals.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update patches a user record. Callers may update themselves; admins may
// update anyone. Role and active changes are admin-only regardless of target.
func (s *UserService) Update(ctx context.Context, caller *domain.User, id string, input ports.UserUpdateInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.IsAuthorized(caller, user.ID, domain.ActionWrite) {
		return nil, domain.NotAuthorized("update", "user")
	}

	if (input.Active != nil || input.Role != nil) && caller.Role != domain.RoleAdmin {
		return nil, &domain.NotAuthorizedError{Detail: "not authorized to change role or active status"}
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "role", Message: "role must be one of: user admin"},
			}}
		}
		user.Role = *input.Role
	}

	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Str("by", caller.ID).Msg("user updated")
	return updated, nil
}

// Delete removes a user. Admin only; route middleware enforces the same rule
// so the service check is the authoritative one.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if caller == nil || caller.Role != domain.RoleAdmin {
		return domain.NotAuthorized("delete", "user")
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("by", caller.ID).Msg("user deleted")
	return nil
}
