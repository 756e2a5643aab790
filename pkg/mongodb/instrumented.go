package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
)

// InstrumentedCollection wraps a mongo.Collection so every store round-trip
// lands in the operation metrics and the query log. Repositories hold this
// instead of the raw collection; the method surface mirrors the driver's.
type InstrumentedCollection struct {
	collection *mongo.Collection
	name       string
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewInstrumentedCollection creates an instrumented handle for a named
// collection. Logger and metrics may be nil; instrumentation is then skipped.
func NewInstrumentedCollection(db *mongo.Database, name string, logger *logging.Logger, m *metrics.Metrics) *InstrumentedCollection {
	return &InstrumentedCollection{
		collection: db.Collection(name),
		name:       name,
		logger:     logger,
		metrics:    m,
	}
}

// Name returns the collection name
func (c *InstrumentedCollection) Name() string {
	return c.name
}

// Indexes returns the collection's index view
func (c *InstrumentedCollection) Indexes() mongo.IndexView {
	return c.collection.Indexes()
}

func (c *InstrumentedCollection) observe(ctx context.Context, operation string, start time.Time, err error, docsAffected int64) {
	duration := time.Since(start)
	success := err == nil

	if c.metrics != nil {
		c.metrics.RecordMongoDBOperation(c.name, operation, success, duration)
	}
	if c.logger != nil {
		c.logger.DatabaseQuery(ctx, c.name, operation, duration, success, docsAffected)
	}
}

// InsertOne inserts a single document
func (c *InstrumentedCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	start := time.Now()
	result, err := c.collection.InsertOne(ctx, document, opts...)

	var docs int64
	if err == nil {
		docs = 1
	}
	c.observe(ctx, "insertOne", start, err, docs)
	return result, err
}

// FindOne finds a single document. A miss (ErrNoDocuments) is recorded as a
// successful round-trip with zero documents, not a store failure.
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	start := time.Now()
	result := c.collection.FindOne(ctx, filter, opts...)

	err := result.Err()
	var docs int64
	if err == nil {
		docs = 1
	}
	if err == mongo.ErrNoDocuments {
		err = nil
	}
	c.observe(ctx, "findOne", start, err, docs)
	return result
}

// Find runs a query returning a cursor
func (c *InstrumentedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	start := time.Now()
	cursor, err := c.collection.Find(ctx, filter, opts...)
	c.observe(ctx, "find", start, err, 0)
	return cursor, err
}

// UpdateOne updates a single document
func (c *InstrumentedCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	start := time.Now()
	result, err := c.collection.UpdateOne(ctx, filter, update, opts...)

	var docs int64
	if err == nil {
		docs = result.MatchedCount
	}
	c.observe(ctx, "updateOne", start, err, docs)
	return result, err
}

// DeleteOne deletes a single document
func (c *InstrumentedCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	start := time.Now()
	result, err := c.collection.DeleteOne(ctx, filter, opts...)

	var docs int64
	if err == nil {
		docs = result.DeletedCount
	}
	c.observe(ctx, "deleteOne", start, err, docs)
	return result, err
}

// FindOneAndDelete atomically removes and returns a single document. A miss
// is recorded the same way as FindOne.
func (c *InstrumentedCollection) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) *mongo.SingleResult {
	start := time.Now()
	result := c.collection.FindOneAndDelete(ctx, filter, opts...)

	err := result.Err()
	var docs int64
	if err == nil {
		docs = 1
	}
	if err == mongo.ErrNoDocuments {
		err = nil
	}
	c.observe(ctx, "findOneAndDelete", start, err, docs)
	return result
}
