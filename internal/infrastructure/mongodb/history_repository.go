package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
	mongohelpers "github.com/Mosco267/exodus-logistics-platform-sub001/pkg/mongodb"
)

// TrackingHistoryRepository implements domain.TrackingHistoryRepository
// using MongoDB
type TrackingHistoryRepository struct {
	collection *mongohelpers.InstrumentedCollection
}

// NewTrackingHistoryRepository creates a new TrackingHistoryRepository
func NewTrackingHistoryRepository(db *mongo.Database, logger *logging.Logger, m *metrics.Metrics) *TrackingHistoryRepository {
	collection := mongohelpers.NewInstrumentedCollection(db, "tracking_history", logger, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "shipmentId", Value: 1},
				{Key: "recordedAt", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &TrackingHistoryRepository{collection: collection}
}

// Append inserts an event. The log is append-only: nothing here ever
// updates or deletes an event.
func (r *TrackingHistoryRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to append tracking event: %w", err)
	}
	return nil
}

// ListByShipment returns a shipment's events in recorded order. An unknown
// shipment yields an empty set, not an error.
func (r *TrackingHistoryRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(mongohelpers.SortAscending("recordedAt")).
		SetProjection(mongohelpers.ExcludeID())

	cursor, err := r.collection.Find(ctx, bson.M{"shipmentId": shipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking history for %s: %w", shipmentID, err)
	}
	defer cursor.Close(ctx)

	events := []domain.TrackingEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode tracking history: %w", err)
	}

	return events, nil
}
