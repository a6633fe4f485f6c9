package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scribehub/identity-api/internal/core/domain"
	"github.com/scribehub/identity-api/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler exposes the security audit trail. Admin only.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type auditEventResponse struct {
	Email     string `json:"email"`
	Action    string `json:"action"`
	TraceID   string `json:"trace_id"`
	Timestamp string `json:"timestamp"`
}

// List handles GET /api/audit?email=&limit=.
//
// @Summary      List audit events for an email
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        email  query  string  true   "Principal email"
// @Param        limit  query  int     false  "Maximum number of events"
// @Success      200  {array}  auditEventResponse
// @Failure      403  {object}  map[string]any
// @Router       /api/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "email", Message: "email is required"},
		}}
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	events, err := h.repo.ListByEmail(c.Request().Context(), email, limit)
	if err != nil {
		return err
	}

	out := make([]auditEventResponse, len(events))
	for i, e := range events {
		out[i] = auditEventResponse{
			Email:     e.Email,
			Action:    e.Action,
			TraceID:   e.TraceID,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, out)
}
