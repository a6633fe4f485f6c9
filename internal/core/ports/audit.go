package ports

import (
	"context"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.AuditEvent, error)
}

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must never fail the calling request.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
