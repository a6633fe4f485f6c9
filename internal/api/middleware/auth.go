package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scribehub/identity-api/internal/api/metrics"
	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/core/ports"
	"github.com/scribehub/identity-api/internal/token"
)

const principalKey = "principal"

// Authenticate validates the bearer token, resolves the principal from the
// store, and injects it into the request context. Any failure before the
// principal is resolved yields the generic credentials error; a resolved but
// deactivated principal yields the distinct disabled error.
func Authenticate(validator *token.Validator, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Same error as a bad token so callers cannot tell an
					// unknown subject from an invalid credential.
					metrics.AuthDeniedTotal.WithLabelValues("unknown_subject").Inc()
					return domain.ErrInvalidCredentials
				}
				return err
			}

			if !user.Active {
				metrics.AuthDeniedTotal.WithLabelValues("disabled").Inc()
				return domain.ErrAccountDisabled
			}

			c.Set(principalKey, user)
			return next(c)
		}
	}
}

// RequireAdmin gates a route to admin principals. It must run after
// Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if p == nil || p.Role != domain.RoleAdmin {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return &domain.NotAuthorizedError{Detail: "admin access required"}
			}
			return next(c)
		}
	}
}

// Principal returns the authenticated principal injected by Authenticate, or
// nil on unauthenticated routes.
func Principal(c echo.Context) *domain.User {
	user, _ := c.Get(principalKey).(*domain.User)
	return user
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrInvalidCredentials
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrInvalidCredentials
	}
	return parts[1], nil
}
