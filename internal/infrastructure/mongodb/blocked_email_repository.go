package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
	mongohelpers "github.com/Mosco267/exodus-logistics-platform-sub001/pkg/mongodb"
)

// BlockedEmailRepository implements domain.BlockedEmailRepository using
// MongoDB
type BlockedEmailRepository struct {
	collection *mongohelpers.InstrumentedCollection
}

// NewBlockedEmailRepository creates a new BlockedEmailRepository
func NewBlockedEmailRepository(db *mongo.Database, logger *logging.Logger, m *metrics.Metrics) *BlockedEmailRepository {
	return &BlockedEmailRepository{collection: mongohelpers.NewInstrumentedCollection(db, "blocked_emails", logger, m)}
}

// Delete removes a soft-ban record and returns it so the caller can
// notify the affected address. A malformed or unknown id reports
// not-found before any side effect can run.
func (r *BlockedEmailRepository) Delete(ctx context.Context, id string) (*domain.BlockedEmail, error) {
	objectID, err := mongohelpers.ParseID(id)
	if err != nil {
		return nil, domain.ErrBlockedEmailNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var blocked domain.BlockedEmail
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&blocked)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBlockedEmailNotFound
		}
		return nil, fmt.Errorf("failed to delete blocked email %s: %w", id, err)
	}

	return &blocked, nil
}
