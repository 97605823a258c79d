package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// CreateDatasetInput carries the fields needed to register dataset metadata.
type CreateDatasetInput struct {
	Name        string
	Category    string
	Source      string
	LastUpdated string
	RecordCount int64
	FileSizeMB  float64
}

// ListDatasetsInput mirrors the HTTP query surface for dataset listing.
type ListDatasetsInput struct {
	Category string
	Source   string
	Search   string
	Page     int
	Limit    int
}

// ListDatasetsResult is a page of datasets plus paging metadata.
type ListDatasetsResult struct {
	Items      []*domain.Dataset
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DatasetService defines use-case operations for the data-science domain.
type DatasetService interface {
	Create(ctx context.Context, actor *domain.User, input CreateDatasetInput) (*domain.Dataset, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Dataset, error)
	List(ctx context.Context, actor *domain.User, input ListDatasetsInput) (*ListDatasetsResult, error)
	Stats(ctx context.Context, actor *domain.User) (*DatasetStats, error)
}
