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

type stubIncidentRepo struct {
	incidents map[string]*domain.Incident
	nextID    int
}

func newStubIncidentRepo() *stubIncidentRepo {
	return &stubIncidentRepo{incidents: make(map[string]*domain.Incident)}
}

func (r *stubIncidentRepo) Create(_ context.Context, in *domain.Incident) (*domain.Incident, error) {
	r.nextID++
	copy := *in
	copy.ID = fmt.Sprintf("inc-%d", r.nextID)
	r.incidents[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubIncidentRepo) FindByID(_ context.Context, id string) (*domain.Incident, error) {
	in, ok := r.incidents[id]
	if !ok {
		return nil, domain.ErrIncidentNotFound
	}
	copy := *in
	return &copy, nil
}

func (r *stubIncidentRepo) List(_ context.Context, f ports.ListIncidentsFilter) ([]*domain.Incident, int64, error) {
	var out []*domain.Incident
	for _, in := range r.incidents {
		if f.Severity != "" && in.Severity != f.Severity {
			continue
		}
		copy := *in
		out = append(out, &copy)
	}
	return out, int64(len(out)), nil
}

func (r *stubIncidentRepo) UpdateStatus(_ context.Context, id, status string) error {
	in, ok := r.incidents[id]
	if !ok {
		return domain.ErrIncidentNotFound
	}
	in.Status = status
	return nil
}

func (r *stubIncidentRepo) Stats(context.Context) (*ports.IncidentStats, error) {
	stats := &ports.IncidentStats{
		BySeverity: make(map[string]int64),
		ByStatus:   make(map[string]int64),
	}
	for _, in := range r.incidents {
		stats.Total++
		stats.BySeverity[in.Severity]++
		stats.ByStatus[in.Status]++
		if in.IsOpen() {
			stats.Open++
		}
		if in.IsCritical() {
			stats.Critical++
		}
	}
	return stats, nil
}

type recordedAudit struct {
	events []domain.AuditEvent
}

func (a *recordedAudit) Record(e domain.AuditEvent) { a.events = append(a.events, e) }

func analyst() *domain.User  { return &domain.User{Username: "ana", Role: domain.RoleCybersecurity} }
func admin() *domain.User    { return &domain.User{Username: "root", Role: domain.RoleAdmin} }
func outsider() *domain.User { return &domain.User{Username: "dsci", Role: domain.RoleDataScience} }

func TestIncidentService_Create(t *testing.T) {
	repo := newStubIncidentRepo()
	audit := &recordedAudit{}
	svc := NewIncidentService(repo, audit, zerolog.Nop())

	created, err := svc.Create(context.Background(), analyst(), ports.CreateIncidentInput{
		Date:         "2026-08-30",
		IncidentType: "Phishing",
		Severity:     domain.SeverityHigh,
		Description:  "Credential harvesting email",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an assigned ID")
	}
	if created.Status != domain.IncidentStatusOpen {
		t.Fatalf("expected default status Open, got %s", created.Status)
	}
	if created.ReportedBy != "ana" {
		t.Fatalf("expected reporter to default to the actor, got %q", created.ReportedBy)
	}
	if len(audit.events) != 1 || audit.events[0].Action != domain.AuditRecordCreated {
		t.Fatalf("expected one record_created audit event, got %+v", audit.events)
	}
}

func TestIncidentService_Create_Validation(t *testing.T) {
	svc := NewIncidentService(newStubIncidentRepo(), nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), analyst(), ports.CreateIncidentInput{
		Severity: "Catastrophic",
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown severity, got %v", err)
	}
}

func TestIncidentService_DomainGate(t *testing.T) {
	repo := newStubIncidentRepo()
	svc := NewIncidentService(repo, nil, zerolog.Nop())

	if _, err := svc.List(context.Background(), outsider(), ports.ListIncidentsInput{}); !errors.Is(err, domain.ErrDomainForbidden) {
		t.Fatalf("data scientist must not reach incidents, got %v", err)
	}
	if _, err := svc.List(context.Background(), nil, ports.ListIncidentsInput{}); !errors.Is(err, domain.ErrDomainForbidden) {
		t.Fatalf("nil actor must be rejected, got %v", err)
	}
	if _, err := svc.List(context.Background(), admin(), ports.ListIncidentsInput{}); err != nil {
		t.Fatalf("admin should reach incidents: %v", err)
	}
}

func TestIncidentService_UpdateStatus(t *testing.T) {
	repo := newStubIncidentRepo()
	svc := NewIncidentService(repo, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), analyst(), ports.CreateIncidentInput{
		Date: "2026-08-30", IncidentType: "Malware", Severity: domain.SeverityCritical,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), analyst(), created.ID, domain.IncidentStatusResolved)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.IncidentStatusResolved {
		t.Fatalf("expected Resolved, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), analyst(), created.ID, "Escalated"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), analyst(), "missing", domain.IncidentStatusClosed); !errors.Is(err, domain.ErrIncidentNotFound) {
		t.Fatalf("expected ErrIncidentNotFound, got %v", err)
	}
}

func TestIncidentService_ListNormalizesPaging(t *testing.T) {
	svc := NewIncidentService(newStubIncidentRepo(), nil, zerolog.Nop())

	res, err := svc.List(context.Background(), analyst(), ports.ListIncidentsInput{Page: -3, Limit: 5000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", res.Page)
	}
	if res.Limit != maxPageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxPageLimit, res.Limit)
	}
}
