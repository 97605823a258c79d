package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage clamps page/limit to sane values shared by all list endpoints.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

var validSeverities = map[string]struct{}{
	domain.SeverityLow:      {},
	domain.SeverityMedium:   {},
	domain.SeverityHigh:     {},
	domain.SeverityCritical: {},
}

var validIncidentStatuses = map[string]struct{}{
	domain.IncidentStatusOpen:          {},
	domain.IncidentStatusInvestigating: {},
	domain.IncidentStatusResolved:      {},
	domain.IncidentStatusClosed:        {},
}

type incidentService struct {
	repo   ports.IncidentRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewIncidentService returns an IncidentService implementation scoped to the
// cybersecurity capability.
func NewIncidentService(repo ports.IncidentRepository, audit AuditRecorder, logger zerolog.Logger) ports.IncidentService {
	return &incidentService{repo: repo, audit: audit, logger: logger}
}

func (s *incidentService) authorize(actor *domain.User) error {
	if actor == nil || !actor.CanAccessDomain(domain.DomainCybersecurity) {
		return domain.ErrDomainForbidden
	}
	return nil
}

func (s *incidentService) Create(ctx context.Context, actor *domain.User, in ports.CreateIncidentInput) (*domain.Incident, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, ok := validSeverities[in.Severity]; !ok {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrValidation, in.Severity)
	}
	status := in.Status
	if status == "" {
		status = domain.IncidentStatusOpen
	}
	if _, ok := validIncidentStatuses[status]; !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	incident := &domain.Incident{
		Date:         in.Date,
		IncidentType: in.IncidentType,
		Severity:     in.Severity,
		Status:       status,
		Description:  in.Description,
		ReportedBy:   in.ReportedBy,
		CreatedAt:    time.Now().UTC(),
	}
	if incident.ReportedBy == "" {
		incident.ReportedBy = actor.Username
	}

	created, err := s.repo.Create(ctx, incident)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create incident")
		return nil, err
	}

	s.logger.Info().Str("incident_id", created.ID).Str("severity", created.Severity).Msg("incident created")
	s.recordAudit(actor, domain.AuditRecordCreated, "incident "+created.ID)

	return created, nil
}

func (s *incidentService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Incident, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *incidentService) List(ctx context.Context, actor *domain.User, in ports.ListIncidentsInput) (*ports.ListIncidentsResult, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := s.repo.List(ctx, ports.ListIncidentsFilter{
		Severity:     in.Severity,
		Status:       in.Status,
		IncidentType: in.IncidentType,
		Search:       in.Search,
		DateFrom:     in.DateFrom,
		DateTo:       in.DateTo,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListIncidentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *incidentService) UpdateStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.Incident, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, ok := validIncidentStatuses[status]; !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info().Str("incident_id", id).Str("status", status).Msg("incident status updated")
	s.recordAudit(actor, domain.AuditRecordUpdated, fmt.Sprintf("incident %s -> %s", id, status))

	return s.repo.FindByID(ctx, id)
}

func (s *incidentService) Stats(ctx context.Context, actor *domain.User) (*ports.IncidentStats, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

func (s *incidentService) recordAudit(actor *domain.User, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:  actor.Username,
		Action:    action,
		Domain:    domain.DomainCybersecurity,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
