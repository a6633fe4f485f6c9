package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/tracing"
)

// errorResponse is the canonical error envelope for all API errors. Detail is
// a string for most failures and a list of field descriptors for validation
// failures.
type errorResponse struct {
	Detail  any    `json:"detail"`
	TraceID string `json:"trace_id"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the failure taxonomy to deterministic HTTP status codes.
//   - Keeps every authentication failure behind one generic 401 message.
//   - Logs unexpected errors with the trace id without leaking details to the
//     client.
//   - Renders a consistent envelope: {"detail": ..., "trace_id": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		traceID := tracing.FromContext(c.Request().Context())
		code, detail := resolveError(err, log, c, traceID)

		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		_ = c.JSON(code, errorResponse{Detail: detail, TraceID: traceID})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, traceID string) (int, any) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Fields
	}

	var nae *domain.NotAuthorizedError
	if errors.As(err, &nae) {
		return http.StatusForbidden, nae.Detail
	}

	var ce *domain.ConstraintError
	if errors.As(err, &ce) {
		return http.StatusBadRequest, ce.Detail
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrMissingSubject):
		// One message for every authentication failure, so the response does
		// not reveal which check rejected the request.
		return http.StatusUnauthorized, "could not validate credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "account is disabled"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "email already registered"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, "post not found"
	}

	// Unexpected error: log the real cause keyed by trace id, return a
	// generic message.
	log.Error().
		Err(err).
		Str("trace_id", traceID).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
