package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateID generates a new MongoDB ObjectID
func GenerateID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// GenerateIDString generates a new MongoDB ObjectID as a string
func GenerateIDString() string {
	return primitive.NewObjectID().Hex()
}

// ParseID parses a string into a MongoDB ObjectID
func ParseID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}

// IsValidID reports whether a string is a well-formed ObjectID hex. Used
// to fast-fail requests before they reach the store.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// BuildUpdate builds a BSON update document
func BuildUpdate(set bson.M) bson.M {
	return bson.M{"$set": set}
}

// BuildUpdateWithTimestamp builds a BSON update document with automatic updatedAt.
// Only the provided fields are set; everything else in the document is untouched.
func BuildUpdateWithTimestamp(set bson.M) bson.M {
	set["updatedAt"] = Now()
	return bson.M{"$set": set}
}

// SortAscending creates an ascending sort option
func SortAscending(field string) bson.D {
	return bson.D{{Key: field, Value: 1}}
}

// SortDescending creates a descending sort option
func SortDescending(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}

// ExcludeID is a projection that drops the Mongo-internal _id field from
// results returned to callers.
func ExcludeID() bson.M {
	return bson.M{"_id": 0}
}
