package ports

import (
	"context"

	"github.com/openclass/lms-platform/internal/core/domain"
)

// AuditRepository persists auth audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int64) ([]domain.AuditEvent, error)
}

// AuditService records and queries the auth audit trail.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	Recent(ctx context.Context, limit int64) ([]domain.AuditEvent, error)
}

// AuditSink accepts events for asynchronous recording. Implemented by the
// queue dispatcher; handlers must never block on audit persistence.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
