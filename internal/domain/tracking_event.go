package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingEvent is one entry in a shipment's append-only event log.
// Events are never mutated after insert; the log is referenced by
// shipmentId and reads return an empty set when the shipment is unknown.
type TrackingEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShipmentID string             `bson:"shipmentId" json:"shipmentId"`
	Status     string             `bson:"status" json:"status"`
	Note       string             `bson:"note" json:"note"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
}

// NewTrackingEvent builds an event for a status transition
func NewTrackingEvent(shipmentID string, change *StatusChange) *TrackingEvent {
	return &TrackingEvent{
		ShipmentID: shipmentID,
		Status:     change.Status,
		Note:       change.StatusNote,
		RecordedAt: change.StatusUpdatedAt,
	}
}
