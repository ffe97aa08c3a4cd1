package service

import (
	"context"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditTrailService persists and queries auth audit events.
type AuditTrailService struct {
	repo ports.AuditRepository
}

func NewAuditTrailService(repo ports.AuditRepository) *AuditTrailService {
	return &AuditTrailService{repo: repo}
}

func (s *AuditTrailService) Record(ctx context.Context, event domain.AuditEvent) error {
	return s.repo.Insert(ctx, event)
}

// Recent returns the newest events first. A non-positive limit falls back to
// the default page size.
func (s *AuditTrailService) Recent(ctx context.Context, limit int64) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
