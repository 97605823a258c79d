package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// largeDatasetThresholdGB marks the size above which a dataset is treated as
// large for reporting purposes.
const largeDatasetThresholdGB = 1.0

// Dataset describes a registered dataset's metadata, not its contents.
type Dataset struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"dataset_name" bson:"dataset_name"`
	Category    string    `json:"category" bson:"category"`
	Source      string    `json:"source" bson:"source"`
	LastUpdated string    `json:"last_updated" bson:"last_updated"`
	RecordCount int64     `json:"record_count" bson:"record_count"`
	FileSizeMB  float64   `json:"file_size_mb" bson:"file_size_mb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// SizeGB converts the stored megabyte size to gigabytes.
func (d *Dataset) SizeGB() float64 {
	return d.FileSizeMB / 1024
}

// IsLarge reports whether the dataset exceeds the large-dataset threshold.
func (d *Dataset) IsLarge() bool {
	return d.SizeGB() > largeDatasetThresholdGB
}

// RecordsPerMB returns the record density, or 0 for an empty file size.
func (d *Dataset) RecordsPerMB() float64 {
	if d.FileSizeMB <= 0 {
		return 0
	}
	return float64(d.RecordCount) / d.FileSizeMB
}

// AIContext renders the dataset metadata as assistant context.
func (d *Dataset) AIContext() string {
	return fmt.Sprintf(
		"Dataset Name: %s\nCategory: %s\nSource: %s\nLast Updated: %s\nRecord Count: %d\nFile Size: %.2f MB (%.2f GB)",
		d.Name, d.Category, d.Source, d.LastUpdated, d.RecordCount, d.FileSizeMB, d.SizeGB(),
	)
}
