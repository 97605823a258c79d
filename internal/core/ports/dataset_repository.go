package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// ListDatasetsFilter carries all query parameters for listing datasets.
type ListDatasetsFilter struct {
	Category string // optional
	Source   string // optional
	Search   string // optional: partial match on name
	Page     int
	Limit    int
}

// DatasetStats aggregates dataset metadata for the dashboard.
type DatasetStats struct {
	Total        int64            `json:"total"`
	TotalRecords int64            `json:"total_records"`
	TotalSizeMB  float64          `json:"total_size_mb"`
	Large        int64            `json:"large"`
	ByCategory   map[string]int64 `json:"by_category"`
}

// DatasetRepository defines persistence operations for dataset metadata.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) (*domain.Dataset, error)
	FindByID(ctx context.Context, id string) (*domain.Dataset, error)
	List(ctx context.Context, filter ListDatasetsFilter) ([]*domain.Dataset, int64, error)
	Stats(ctx context.Context) (*DatasetStats, error)
}
