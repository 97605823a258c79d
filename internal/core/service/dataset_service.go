package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

type datasetService struct {
	repo   ports.DatasetRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewDatasetService returns a DatasetService implementation scoped to the
// datascience capability.
func NewDatasetService(repo ports.DatasetRepository, audit AuditRecorder, logger zerolog.Logger) ports.DatasetService {
	return &datasetService{repo: repo, audit: audit, logger: logger}
}

func (s *datasetService) authorize(actor *domain.User) error {
	if actor == nil || !actor.CanAccessDomain(domain.DomainDataScience) {
		return domain.ErrDomainForbidden
	}
	return nil
}

func (s *datasetService) Create(ctx context.Context, actor *domain.User, in ports.CreateDatasetInput) (*domain.Dataset, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if in.RecordCount < 0 {
		return nil, fmt.Errorf("%w: record count cannot be negative", domain.ErrValidation)
	}
	if in.FileSizeMB < 0 {
		return nil, fmt.Errorf("%w: file size cannot be negative", domain.ErrValidation)
	}

	dataset := &domain.Dataset{
		Name:        in.Name,
		Category:    in.Category,
		Source:      in.Source,
		LastUpdated: in.LastUpdated,
		RecordCount: in.RecordCount,
		FileSizeMB:  in.FileSizeMB,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, dataset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to register dataset")
		return nil, err
	}

	s.logger.Info().Str("dataset_id", created.ID).Str("category", created.Category).Msg("dataset registered")
	s.recordAudit(actor, domain.AuditRecordCreated, "dataset "+created.ID)

	return created, nil
}

func (s *datasetService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Dataset, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *datasetService) List(ctx context.Context, actor *domain.User, in ports.ListDatasetsInput) (*ports.ListDatasetsResult, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := s.repo.List(ctx, ports.ListDatasetsFilter{
		Category: in.Category,
		Source:   in.Source,
		Search:   in.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListDatasetsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *datasetService) Stats(ctx context.Context, actor *domain.User) (*ports.DatasetStats, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

func (s *datasetService) recordAudit(actor *domain.User, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:  actor.Username,
		Action:    action,
		Domain:    domain.DomainDataScience,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
