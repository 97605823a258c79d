package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

var validTicketPriorities = map[string]struct{}{
	domain.TicketPriorityLow:      {},
	domain.TicketPriorityMedium:   {},
	domain.TicketPriorityHigh:     {},
	domain.TicketPriorityCritical: {},
}

var validTicketStatuses = map[string]struct{}{
	domain.TicketStatusOpen:       {},
	domain.TicketStatusInProgress: {},
	domain.TicketStatusResolved:   {},
	domain.TicketStatusClosed:     {},
}

type ticketService struct {
	repo   ports.TicketRepository
	audit  AuditRecorder
	logger zerolog.Logger
	seq    atomic.Uint64
}

// NewTicketService returns a TicketService implementation scoped to the
// itoperations capability.
func NewTicketService(repo ports.TicketRepository, audit AuditRecorder, logger zerolog.Logger) ports.TicketService {
	return &ticketService{repo: repo, audit: audit, logger: logger}
}

func (s *ticketService) authorize(actor *domain.User) error {
	if actor == nil || !actor.CanAccessDomain(domain.DomainITOperations) {
		return domain.ErrDomainForbidden
	}
	return nil
}

// generateTicketID returns a display identifier in the format TKT-XXXXXXXX.
// Uniqueness comes from the timestamp plus a process-local counter; the
// store's own _id remains the real key.
func (s *ticketService) generateTicketID() string {
	n := s.seq.Add(1)
	return fmt.Sprintf("TKT-%06X%02X", time.Now().Unix()&0xFFFFFF, n&0xFF)
}

func (s *ticketService) Create(ctx context.Context, actor *domain.User, in ports.CreateTicketInput) (*domain.Ticket, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, ok := validTicketPriorities[in.Priority]; !ok {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, in.Priority)
	}

	status := domain.TicketStatusOpen
	if in.AssignedTo != "" {
		status = domain.TicketStatusInProgress
	}
	createdDate := in.CreatedDate
	if createdDate == "" {
		createdDate = time.Now().UTC().Format("2006-01-02")
	}

	ticket := &domain.Ticket{
		TicketID:    s.generateTicketID(),
		Priority:    in.Priority,
		Status:      status,
		Category:    in.Category,
		Subject:     in.Subject,
		Description: in.Description,
		CreatedDate: createdDate,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, err
	}

	s.logger.Info().Str("ticket_id", created.TicketID).Str("priority", created.Priority).Msg("ticket created")
	s.recordAudit(actor, domain.AuditRecordCreated, "ticket "+created.TicketID)

	return created, nil
}

func (s *ticketService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ticketService) List(ctx context.Context, actor *domain.User, in ports.ListTicketsInput) (*ports.ListTicketsResult, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := s.repo.List(ctx, ports.ListTicketsFilter{
		Priority:   in.Priority,
		Status:     in.Status,
		Category:   in.Category,
		AssignedTo: in.AssignedTo,
		Search:     in.Search,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListTicketsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ticketService) Assign(ctx context.Context, actor *domain.User, id, assignee string) (*domain.Ticket, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if assignee == "" {
		return nil, fmt.Errorf("%w: assignee cannot be empty", domain.ErrValidation)
	}

	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket.AssignedTo = assignee
	ticket.Status = domain.TicketStatusInProgress
	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ticket_id", ticket.TicketID).Str("assignee", assignee).Msg("ticket assigned")
	s.recordAudit(actor, domain.AuditRecordUpdated, fmt.Sprintf("ticket %s assigned to %s", ticket.TicketID, assignee))

	return ticket, nil
}

func (s *ticketService) Resolve(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, id, domain.TicketStatusResolved)
}

func (s *ticketService) Close(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, id, domain.TicketStatusClosed)
}

func (s *ticketService) transition(ctx context.Context, actor *domain.User, id, status string) (*domain.Ticket, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, ok := validTicketStatuses[status]; !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket.Status = status
	ticket.ResolvedDate = time.Now().UTC().Format("2006-01-02")
	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ticket_id", ticket.TicketID).Str("status", status).Msg("ticket transitioned")
	s.recordAudit(actor, domain.AuditRecordUpdated, fmt.Sprintf("ticket %s -> %s", ticket.TicketID, status))

	return ticket, nil
}

func (s *ticketService) Stats(ctx context.Context, actor *domain.User) (*ports.TicketStats, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

func (s *ticketService) recordAudit(actor *domain.User, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:  actor.Username,
		Action:    action,
		Domain:    domain.DomainITOperations,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
