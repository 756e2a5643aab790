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

// NotificationRepository implements domain.NotificationRepository using
// MongoDB
type NotificationRepository struct {
	collection *mongohelpers.InstrumentedCollection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database, logger *logging.Logger, m *metrics.Metrics) *NotificationRepository {
	collection := mongohelpers.NewInstrumentedCollection(db, "notifications", logger, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userEmail", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &NotificationRepository{collection: collection}
}

// Insert persists a notification and returns its id
func (r *NotificationRepository) Insert(ctx context.Context, notification *domain.Notification) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if notification.ID.IsZero() {
		notification.ID = mongohelpers.GenerateID()
	}

	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}

	return notification.ID.Hex(), nil
}

// MarkRead sets read=true. The filter matches on id alone, so marking an
// already-read notification matches again and stays a no-op rather than
// an error.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	objectID, err := mongohelpers.ParseID(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}

	if result.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// DeleteOwned deletes only when both the id and the owning email match.
// Zero deletions report not-found whether the id is unknown or owned by
// someone else, so existence never leaks across owners.
func (r *NotificationRepository) DeleteOwned(ctx context.Context, id, ownerEmail string) error {
	objectID, err := mongohelpers.ParseID(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":       objectID,
		"userEmail": ownerEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// ListByEmail returns a user's notifications, newest first
func (r *NotificationRepository) ListByEmail(ctx context.Context, email string) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(mongohelpers.SortDescending("createdAt"))

	cursor, err := r.collection.Find(ctx, bson.M{"userEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	notifications := []domain.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}
