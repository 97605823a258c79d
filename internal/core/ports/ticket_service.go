package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// CreateTicketInput carries the fields needed to open a new ticket.
type CreateTicketInput struct {
	Priority    string
	Category    string
	Subject     string
	Description string
	CreatedDate string
	AssignedTo  string
}

// ListTicketsInput mirrors the HTTP query surface for ticket listing.
type ListTicketsInput struct {
	Priority   string
	Status     string
	Category   string
	AssignedTo string
	Search     string
	Page       int
	Limit      int
}

// ListTicketsResult is a page of tickets plus paging metadata.
type ListTicketsResult struct {
	Items      []*domain.Ticket
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TicketService defines use-case operations for the IT-operations domain.
type TicketService interface {
	Create(ctx context.Context, actor *domain.User, input CreateTicketInput) (*domain.Ticket, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error)
	List(ctx context.Context, actor *domain.User, input ListTicketsInput) (*ListTicketsResult, error)
	Assign(ctx context.Context, actor *domain.User, id, assignee string) (*domain.Ticket, error)
	Resolve(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error)
	Close(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error)
	Stats(ctx context.Context, actor *domain.User) (*TicketStats, error)
}
