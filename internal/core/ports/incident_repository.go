package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// ListIncidentsFilter carries all query parameters for listing incidents.
type ListIncidentsFilter struct {
	Severity     string // optional
	Status       string // optional
	IncidentType string // optional
	Search       string // optional: partial match on type or description
	DateFrom     string // optional: date >= DateFrom (YYYY-MM-DD)
	DateTo       string // optional: date <= DateTo
	Page         int    // 1-based
	Limit        int    // capped by the service
}

// IncidentStats aggregates the counts the dashboard charts consume.
type IncidentStats struct {
	Total      int64            `json:"total"`
	Open       int64            `json:"open"`
	Critical   int64            `json:"critical"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// IncidentRepository defines persistence operations for security incidents.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) (*domain.Incident, error)
	FindByID(ctx context.Context, id string) (*domain.Incident, error)
	List(ctx context.Context, filter ListIncidentsFilter) ([]*domain.Incident, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Stats(ctx context.Context) (*IncidentStats, error)
}
