package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

type stubTicketRepo struct {
	tickets map[string]*domain.Ticket
	nextID  int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, in *domain.Ticket) (*domain.Ticket, error) {
	r.nextID++
	copy := *in
	copy.ID = fmt.Sprintf("tkt-%d", r.nextID)
	r.tickets[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	in, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	copy := *in
	return &copy, nil
}

func (r *stubTicketRepo) List(_ context.Context, _ ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	var out []*domain.Ticket
	for _, in := range r.tickets {
		copy := *in
		out = append(out, &copy)
	}
	return out, int64(len(out)), nil
}

func (r *stubTicketRepo) Update(_ context.Context, in *domain.Ticket) error {
	if _, ok := r.tickets[in.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	copy := *in
	r.tickets[in.ID] = &copy
	return nil
}

func (r *stubTicketRepo) Stats(context.Context) (*ports.TicketStats, error) {
	stats := &ports.TicketStats{
		ByPriority: make(map[string]int64),
		ByStatus:   make(map[string]int64),
	}
	for _, t := range r.tickets {
		stats.Total++
		stats.ByPriority[t.Priority]++
		stats.ByStatus[t.Status]++
		if t.IsOpen() {
			stats.Open++
		}
		if !t.IsAssigned() {
			stats.Unassigned++
		}
	}
	return stats, nil
}

func engineer() *domain.User { return &domain.User{Username: "ops", Role: domain.RoleITOperations} }

func TestTicketService_Create(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), engineer(), ports.CreateTicketInput{
		Priority: domain.SeverityHigh,
		Category: "Network",
		Subject:  "VPN unreachable",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.TicketID == "" {
		t.Fatalf("expected a generated ticket identifier")
	}
	if created.Status != domain.TicketStatusOpen {
		t.Fatalf("unassigned ticket should open as Open, got %s", created.Status)
	}

	assigned, err := svc.Create(context.Background(), engineer(), ports.CreateTicketInput{
		Priority:   domain.SeverityLow,
		Subject:    "Printer jam",
		AssignedTo: "ops",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if assigned.Status != domain.TicketStatusInProgress {
		t.Fatalf("pre-assigned ticket should open In Progress, got %s", assigned.Status)
	}
	if assigned.TicketID == created.TicketID {
		t.Fatalf("ticket identifiers should differ")
	}
}

func TestTicketService_AssignResolveClose(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, nil, zerolog.Nop())

	created, _ := svc.Create(context.Background(), engineer(), ports.CreateTicketInput{
		Priority: domain.SeverityMedium, Subject: "Disk full",
	})

	assigned, err := svc.Assign(context.Background(), engineer(), created.ID, "ops")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if assigned.AssignedTo != "ops" || assigned.Status != domain.TicketStatusInProgress {
		t.Fatalf("unexpected ticket after assign: %+v", assigned)
	}

	if _, err := svc.Assign(context.Background(), engineer(), created.ID, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty assignee should fail validation, got %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), engineer(), created.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != domain.TicketStatusResolved || resolved.ResolvedDate == "" {
		t.Fatalf("resolve should stamp status and date: %+v", resolved)
	}

	closed, err := svc.Close(context.Background(), engineer(), created.ID)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed {
		t.Fatalf("expected Closed, got %s", closed.Status)
	}

	if _, err := svc.Resolve(context.Background(), engineer(), "missing"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketService_DomainGate(t *testing.T) {
	svc := NewTicketService(newStubTicketRepo(), nil, zerolog.Nop())

	if _, err := svc.List(context.Background(), analyst(), ports.ListTicketsInput{}); !errors.Is(err, domain.ErrDomainForbidden) {
		t.Fatalf("cybersecurity analyst must not reach tickets, got %v", err)
	}
	if _, err := svc.Stats(context.Background(), admin()); err != nil {
		t.Fatalf("admin should reach ticket stats: %v", err)
	}
}

func TestTicketService_Create_PriorityVocabulary(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, nil, zerolog.Nop())

	for _, priority := range []string{
		domain.TicketPriorityLow,
		domain.TicketPriorityMedium,
		domain.TicketPriorityHigh,
		domain.TicketPriorityCritical,
	} {
		if _, err := svc.Create(context.Background(), engineer(), ports.CreateTicketInput{
			Priority:    priority,
			Category:    "Network",
			Subject:     "VPN flapping",
			Description: "tunnel drops every few minutes",
		}); err != nil {
			t.Fatalf("priority %q rejected: %v", priority, err)
		}
	}

	_, err := svc.Create(context.Background(), engineer(), ports.CreateTicketInput{
		Priority:    "Urgent",
		Category:    "Network",
		Subject:     "VPN flapping",
		Description: "tunnel drops every few minutes",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown priority, got %v", err)
	}
}
