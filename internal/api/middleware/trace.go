package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/tracing"
)

// HeaderXTraceID is the correlation header reused from the caller when
// present and echoed on every response.
const HeaderXTraceID = "X-Trace-ID"

// Trace assigns a trace id to each request and stamps it on the request
// context, the response header, and the start/completion log lines. The
// header is set before the handler runs so every exit path, including
// failures, carries it.
func Trace(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderXTraceID)
			if id == "" {
				id = tracing.NewID()
			}

			ctx := tracing.WithTraceID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(HeaderXTraceID, id)

			reqLog := log.With().Str("trace_id", id).Logger()
			reqLog.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request started")

			err := next(c)

			evt := reqLog.Info().Int("status", c.Response().Status)
			if err != nil {
				evt = evt.Err(err)
			}
			evt.Msg("request completed")

			return err
		}
	}
}
