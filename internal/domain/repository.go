package domain

import (
	"context"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
)

// ShipmentRepository persists shipment aggregates. Implementations enforce
// uniqueness on shipmentId and trackingNumber and surface conflicts as
// ErrDuplicateIdentifier so callers can retry with fresh identifiers.
type ShipmentRepository interface {
	Insert(ctx context.Context, shipment *Shipment) error
	FindByShipmentID(ctx context.Context, shipmentID string, scope identity.Scope) (*Shipment, error)
	UpdateStatus(ctx context.Context, shipmentID string, change *StatusChange) (matched int64, err error)
	List(ctx context.Context, scope identity.Scope, limit int64) ([]Shipment, error)
	SearchPrefix(ctx context.Context, scope identity.Scope, query string, limit int64) ([]Shipment, error)
}

// TrackingHistoryRepository persists the append-only event log. The
// shipmentId reference is not enforced at write time; reads for an unknown
// shipment return an empty set.
type TrackingHistoryRepository interface {
	Append(ctx context.Context, event *TrackingEvent) error
	ListByShipment(ctx context.Context, shipmentID string) ([]TrackingEvent, error)
}

// UserRepository reads account records
type UserRepository interface {
	FindDeleted(ctx context.Context) ([]User, error)
}

// NotificationRepository persists notification records. DeleteOwned
// matches on both id and owning email and reports ErrNotificationNotFound
// when nothing matched, so an ownership mismatch is indistinguishable from
// an unknown id.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *Notification) (string, error)
	MarkRead(ctx context.Context, id string) error
	DeleteOwned(ctx context.Context, id, ownerEmail string) error
	ListByEmail(ctx context.Context, email string) ([]Notification, error)
}

// BlockedEmailRepository persists soft-ban records. Delete removes the
// record and returns it so the caller can notify the affected address.
type BlockedEmailRepository interface {
	Delete(ctx context.Context, id string) (*BlockedEmail, error)
}
