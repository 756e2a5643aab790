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

// UserRepository implements domain.UserRepository using MongoDB
type UserRepository struct {
	collection *mongohelpers.InstrumentedCollection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database, logger *logging.Logger, m *metrics.Metrics) *UserRepository {
	collection := mongohelpers.NewInstrumentedCollection(db, "users", logger, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "isDeleted", Value: 1},
				{Key: "deletedAt", Value: -1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &UserRepository{collection: collection}
}

// FindDeleted returns soft-deleted accounts, most recently deleted first
func (r *UserRepository) FindDeleted(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(mongohelpers.SortDescending("deletedAt")).
		SetProjection(bson.M{
			"_id":       1,
			"name":      1,
			"email":     1,
			"deletedAt": 1,
		})

	cursor, err := r.collection.Find(ctx, bson.M{"isDeleted": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find deleted users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode deleted users: %w", err)
	}

	return users, nil
}
