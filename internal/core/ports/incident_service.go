package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// CreateIncidentInput carries the fields needed to record a new incident.
type CreateIncidentInput struct {
	Date         string
	IncidentType string
	Severity     string
	Status       string
	Description  string
	ReportedBy   string
}

// ListIncidentsInput mirrors the HTTP query surface for incident listing.
type ListIncidentsInput struct {
	Severity     string
	Status       string
	IncidentType string
	Search       string
	DateFrom     string
	DateTo       string
	Page         int
	Limit        int
}

// ListIncidentsResult is a page of incidents plus paging metadata.
type ListIncidentsResult struct {
	Items      []*domain.Incident
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// IncidentService defines use-case operations for the cybersecurity domain.
type IncidentService interface {
	Create(ctx context.Context, actor *domain.User, input CreateIncidentInput) (*domain.Incident, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Incident, error)
	List(ctx context.Context, actor *domain.User, input ListIncidentsInput) (*ListIncidentsResult, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.Incident, error)
	Stats(ctx context.Context, actor *domain.User) (*IncidentStats, error)
}
