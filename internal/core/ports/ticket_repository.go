package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// ListTicketsFilter carries all query parameters for listing tickets.
type ListTicketsFilter struct {
	Priority   string // optional
	Status     string // optional
	Category   string // optional
	AssignedTo string // optional
	Search     string // optional: partial match on subject or description
	Page       int
	Limit      int
}

// TicketStats aggregates ticket counts for the dashboard.
type TicketStats struct {
	Total      int64            `json:"total"`
	Open       int64            `json:"open"`
	Unassigned int64            `json:"unassigned"`
	Critical   int64            `json:"critical"`
	ByPriority map[string]int64 `json:"by_priority"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// TicketRepository defines persistence operations for IT tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, int64, error)
	// Update replaces the mutable fields (status, assigned_to, resolved_date).
	Update(ctx context.Context, ticket *domain.Ticket) error
	Stats(ctx context.Context) (*TicketStats, error)
}
