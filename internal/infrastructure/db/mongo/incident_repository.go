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

const incidentsCollection = "cyber_incidents"

type IncidentRepository struct {
	coll *mongo.Collection
}

func NewIncidentRepository(db *mongo.Database) *IncidentRepository {
	return &IncidentRepository{coll: db.Collection(incidentsCollection)}
}

func (r *IncidentRepository) Create(ctx context.Context, incident *domain.Incident) (*domain.Incident, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	incident.ID = ""
	res, err := r.coll.InsertOne(ctx, incident)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		incident.ID = oid.Hex()
	}
	return incident, nil
}

func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*domain.Incident, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIncidentNotFound
	}

	var incident domain.Incident
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&incident); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, err
	}
	incident.ID = id
	return &incident, nil
}

func (r *IncidentRepository) List(ctx context.Context, f ports.ListIncidentsFilter) ([]*domain.Incident, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Severity != "" {
		filter["severity"] = f.Severity
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.IncidentType != "" {
		filter["incident_type"] = f.IncidentType
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"incident_type": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.DateFrom != "" || f.DateTo != "" {
		dateRange := bson.M{}
		if f.DateFrom != "" {
			dateRange["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["$lte"] = f.DateTo
		}
		filter["date"] = dateRange
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var incidents []*domain.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, 0, err
	}
	return incidents, total, nil
}

func (r *IncidentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIncidentNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrIncidentNotFound
	}
	return nil
}

// Stats aggregates severity and status counts in a single pipeline pass.
func (r *IncidentRepository) Stats(ctx context.Context) (*ports.IncidentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.IncidentStats{
		BySeverity: make(map[string]int64),
		ByStatus:   make(map[string]int64),
	}

	severity, err := r.groupCounts(ctx, "$severity")
	if err != nil {
		return nil, err
	}
	for k, v := range severity {
		stats.BySeverity[k] = v
		stats.Total += v
		if k == domain.SeverityCritical {
			stats.Critical = v
		}
	}

	status, err := r.groupCounts(ctx, "$status")
	if err != nil {
		return nil, err
	}
	for k, v := range status {
		stats.ByStatus[k] = v
		if k == domain.IncidentStatusOpen || k == domain.IncidentStatusInvestigating {
			stats.Open += v
		}
	}

	return stats, nil
}

func (r *IncidentRepository) groupCounts(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cursor.Err()
}

// EnsureIndexes creates the query indexes for the incidents collection.
func (r *IncidentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "severity", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
