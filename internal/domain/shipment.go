package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrShipmentNotFound     = errors.New("shipment not found")
	ErrDuplicateIdentifier  = errors.New("identifier already exists")
	ErrMissingOwner         = errors.New("shipment requires a creator id or email")
	ErrEmptyShipmentID      = errors.New("shipmentId is required")
	ErrEmptyStatus          = errors.New("status is required")
)

// StatusCancelled is the only status label with special handling: when a
// transition normalizes to it, the cancellation marker is stamped.
const StatusCancelled = "cancelled"

// Shipment is the aggregate root for the tracking bounded context
type Shipment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShipmentID      string             `bson:"shipmentId" json:"shipmentId"`
	TrackingNumber  string             `bson:"trackingNumber" json:"trackingNumber"`
	CreatedByUserID string             `bson:"createdByUserId,omitempty" json:"createdByUserId,omitempty"`
	CreatedByEmail  string             `bson:"createdByEmail,omitempty" json:"createdByEmail,omitempty"`
	OriginCountry   string             `bson:"originCountry,omitempty" json:"originCountry,omitempty"`
	Status          string             `bson:"status" json:"status"`
	StatusNote      string             `bson:"statusNote" json:"statusNote"`
	StatusUpdatedAt time.Time          `bson:"statusUpdatedAt" json:"statusUpdatedAt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	CancelledAt     *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// NewShipment creates a shipment with generator-issued identifiers. At
// least one of the owner references must be set.
func NewShipment(createdByUserID, createdByEmail, originCountry, initialStatus string) (*Shipment, error) {
	if createdByUserID == "" && createdByEmail == "" {
		return nil, ErrMissingOwner
	}

	shipmentID, err := NewShipmentID()
	if err != nil {
		return nil, err
	}

	trackingNumber, err := NewTrackingNumber(originCountry)
	if err != nil {
		return nil, err
	}

	if initialStatus == "" {
		initialStatus = "created"
	}

	now := time.Now().UTC()
	s := &Shipment{
		ShipmentID:      shipmentID,
		TrackingNumber:  trackingNumber,
		CreatedByUserID: createdByUserID,
		CreatedByEmail:  strings.ToLower(strings.TrimSpace(createdByEmail)),
		OriginCountry:   normalizeCountry(originCountry),
		Status:          initialStatus,
		StatusNote:      "",
		StatusUpdatedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s, nil
}

// Reissue replaces both identifiers with freshly generated values. Used by
// the bounded retry loop when an insert hits a uniqueness conflict.
func (s *Shipment) Reissue() error {
	shipmentID, err := NewShipmentID()
	if err != nil {
		return err
	}
	trackingNumber, err := NewTrackingNumber(s.OriginCountry)
	if err != nil {
		return err
	}
	s.ShipmentID = shipmentID
	s.TrackingNumber = trackingNumber
	return nil
}

// IsCancellation reports whether a status label normalizes to cancelled
func IsCancellation(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusCancelled)
}

// StatusChange captures the fields a status transition writes. The
// lifecycle is advisory: any status may follow any other, and a repeated
// cancellation re-stamps CancelledAt. Nothing ever clears CancelledAt.
type StatusChange struct {
	Status          string
	StatusNote      string
	StatusUpdatedAt time.Time
	CancelledAt     *time.Time
}

// NewStatusChange validates and builds a status transition
func NewStatusChange(shipmentID, status, note string) (*StatusChange, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, ErrEmptyShipmentID
	}
	if strings.TrimSpace(status) == "" {
		return nil, ErrEmptyStatus
	}

	now := time.Now().UTC()
	change := &StatusChange{
		Status:          status,
		StatusNote:      note,
		StatusUpdatedAt: now,
	}
	if IsCancellation(status) {
		change.CancelledAt = &now
	}
	return change, nil
}

// Apply writes the transition onto the aggregate
func (s *Shipment) Apply(change *StatusChange) {
	s.Status = change.Status
	s.StatusNote = change.StatusNote
	s.StatusUpdatedAt = change.StatusUpdatedAt
	s.UpdatedAt = change.StatusUpdatedAt
	if change.CancelledAt != nil {
		s.CancelledAt = change.CancelledAt
	}
}
