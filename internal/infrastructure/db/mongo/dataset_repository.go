package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

const datasetsCollection = "datasets_metadata"

type DatasetRepository struct {
	coll *mongo.Collection
}

func NewDatasetRepository(db *mongo.Database) *DatasetRepository {
	return &DatasetRepository{coll: db.Collection(datasetsCollection)}
}

func (r *DatasetRepository) Create(ctx context.Context, dataset *domain.Dataset) (*domain.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dataset.ID = ""
	res, err := r.coll.InsertOne(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		dataset.ID = oid.Hex()
	}
	return dataset, nil
}

func (r *DatasetRepository) FindByID(ctx context.Context, id string) (*domain.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDatasetNotFound
	}

	var dataset domain.Dataset
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&dataset); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, err
	}
	return &dataset, nil
}

func (r *DatasetRepository) List(ctx context.Context, f ports.ListDatasetsFilter) ([]*domain.Dataset, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.Search != "" {
		filter["dataset_name"] = primitive.Regex{Pattern: f.Search, Options: "i"}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "dataset_name", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var datasets []*domain.Dataset
	if err := cursor.All(ctx, &datasets); err != nil {
		return nil, 0, err
	}
	return datasets, total, nil
}

// Stats aggregates dataset totals and per-category counts.
func (r *DatasetRepository) Stats(ctx context.Context) (*ports.DatasetStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.DatasetStats{ByCategory: make(map[string]int64)}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$category",
			"count":         bson.M{"$sum": 1},
			"total_records": bson.M{"$sum": "$record_count"},
			"total_size_mb": bson.M{"$sum": "$file_size_mb"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID           string  `bson:"_id"`
			Count        int64   `bson:"count"`
			TotalRecords int64   `bson:"total_records"`
			TotalSizeMB  float64 `bson:"total_size_mb"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stats.ByCategory[row.ID] = row.Count
		stats.Total += row.Count
		stats.TotalRecords += row.TotalRecords
		stats.TotalSizeMB += row.TotalSizeMB
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	// Datasets above 1 GB.
	large, err := r.coll.CountDocuments(ctx, bson.M{"file_size_mb": bson.M{"$gt": 1024}})
	if err != nil {
		return nil, err
	}
	stats.Large = large

	return stats, nil
}

// EnsureIndexes creates the query indexes for the datasets collection.
func (r *DatasetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "dataset_name", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
