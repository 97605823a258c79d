package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// ListAuditFilter carries query parameters for the admin audit view.
type ListAuditFilter struct {
	Username string // optional
	Action   string // optional
	Page     int
	Limit    int
}

// AuditRepository persists the platform audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	List(ctx context.Context, filter ListAuditFilter) ([]*domain.AuditEvent, int64, error)
}
