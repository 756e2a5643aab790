package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
	mongohelpers "github.com/Mosco267/exodus-logistics-platform-sub001/pkg/mongodb"
)

// queryTimeout is the per-call budget for store round-trips. Every
// repository call derives a child context from the request context, so
// caller cancellation propagates into the driver.
const queryTimeout = 5 * time.Second

// ShipmentRepository implements domain.ShipmentRepository using MongoDB
type ShipmentRepository struct {
	collection *mongohelpers.InstrumentedCollection
}

// NewShipmentRepository creates a new ShipmentRepository and ensures the
// uniqueness constraints the identifier generator relies on
func NewShipmentRepository(db *mongo.Database, logger *logging.Logger, m *metrics.Metrics) *ShipmentRepository {
	collection := mongohelpers.NewInstrumentedCollection(db, "shipments", logger, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shipmentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trackingNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "createdByUserId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "createdByEmail", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ShipmentRepository{collection: collection}
}

// Insert persists a new shipment. A uniqueness conflict on either
// identifier surfaces as domain.ErrDuplicateIdentifier.
func (r *ShipmentRepository) Insert(ctx context.Context, shipment *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, shipment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("failed to insert shipment: %w", err)
	}
	return nil
}

// FindByShipmentID fetches a single shipment within the caller's
// visibility scope
func (r *ShipmentRepository) FindByShipmentID(ctx context.Context, shipmentID string, scope identity.Scope) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := VisibilityFilter(scope)
	filter["shipmentId"] = shipmentID

	var shipment domain.Shipment
	err := r.collection.FindOne(ctx, filter,
		options.FindOne().SetProjection(mongohelpers.ExcludeID()),
	).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("failed to find shipment %s: %w", shipmentID, err)
	}

	return &shipment, nil
}

// UpdateStatus applies a status transition as a partial-field merge. Only
// the transition's fields are set; concurrent writers to other fields are
// never clobbered.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, shipmentID string, change *domain.StatusChange) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{
		"status":          change.Status,
		"statusNote":      change.StatusNote,
		"statusUpdatedAt": change.StatusUpdatedAt,
	}
	if change.CancelledAt != nil {
		set["cancelledAt"] = *change.CancelledAt
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"shipmentId": shipmentID},
		mongohelpers.BuildUpdateWithTimestamp(set),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update shipment %s status: %w", shipmentID, err)
	}

	return result.MatchedCount, nil
}

// List returns shipments visible to the caller, newest first
func (r *ShipmentRepository) List(ctx context.Context, scope identity.Scope, limit int64) ([]domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(mongohelpers.SortDescending("createdAt")).
		SetLimit(limit).
		SetProjection(mongohelpers.ExcludeID())

	cursor, err := r.collection.Find(ctx, VisibilityFilter(scope), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer cursor.Close(ctx)

	shipments := []domain.Shipment{}
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, fmt.Errorf("failed to decode shipments: %w", err)
	}

	return shipments, nil
}

// SearchPrefix matches shipments whose shipmentId or trackingNumber
// starts with the escaped, case-insensitive query
func (r *ShipmentRepository) SearchPrefix(ctx context.Context, scope identity.Scope, query string, limit int64) ([]domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pattern := PrefixPattern(query)
	match := bson.M{"$or": []bson.M{
		{"shipmentId": pattern},
		{"trackingNumber": pattern},
	}}

	// Combined with $and so a scoped $or clause is never clobbered
	filter := bson.M{"$and": []bson.M{VisibilityFilter(scope), match}}

	opts := options.Find().
		SetSort(mongohelpers.SortDescending("createdAt")).
		SetLimit(limit).
		SetProjection(mongohelpers.ExcludeID())

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search shipments: %w", err)
	}
	defer cursor.Close(ctx)

	shipments := []domain.Shipment{}
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	return shipments, nil
}

// VisibilityFilter translates a caller scope into a BSON filter. Admin
// scopes see everything; an empty non-admin scope matches nothing rather
// than widening to the full collection.
func VisibilityFilter(scope identity.Scope) bson.M {
	if scope.Unrestricted() {
		return bson.M{}
	}

	if scope.Empty() {
		// fail closed
		return bson.M{"_id": bson.M{"$exists": false}}
	}

	clauses := []bson.M{}
	if scope.UserID != "" {
		clauses = append(clauses, bson.M{"createdByUserId": scope.UserID})
	}
	if scope.Email != "" {
		clauses = append(clauses, bson.M{"createdByEmail": scope.Email})
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$or": clauses}
}

// PrefixPattern builds a case-insensitive starts-with regex with every
// metacharacter in the user-supplied query escaped
func PrefixPattern(query string) primitive.Regex {
	escaped := regexp.QuoteMeta(strings.ToUpper(strings.TrimSpace(query)))
	return primitive.Regex{Pattern: "^" + escaped, Options: "i"}
}
