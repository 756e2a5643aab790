package application

import "time"

// ShipmentDTO is the external representation of a shipment. The internal
// storage identifier is never part of it.
type ShipmentDTO struct {
	ShipmentID      string     `json:"shipmentId"`
	TrackingNumber  string     `json:"trackingNumber"`
	CreatedByUserID string     `json:"createdByUserId,omitempty"`
	CreatedByEmail  string     `json:"createdByEmail,omitempty"`
	OriginCountry   string     `json:"originCountry,omitempty"`
	Status          string     `json:"status"`
	StatusNote      string     `json:"statusNote"`
	StatusUpdatedAt time.Time  `json:"statusUpdatedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}

// ShipmentSummaryDTO is the projection returned by prefix search
type ShipmentSummaryDTO struct {
	ShipmentID     string    `json:"shipmentId"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TrackingEventDTO is one entry of a shipment's event log
type TrackingEventDTO struct {
	ShipmentID string    `json:"shipmentId"`
	Status     string    `json:"status"`
	Note       string    `json:"note"`
	RecordedAt time.Time `json:"recordedAt"`
}

// NotificationDTO is the external representation of a notification
type NotificationDTO struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeletedUserDTO is the admin view of a soft-deleted account
type DeletedUserDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// QuoteDTO is the placeholder quote response
type QuoteDTO struct {
	OriginCountry      string  `json:"originCountry"`
	DestinationCountry string  `json:"destinationCountry"`
	WeightKg           float64 `json:"weightKg"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
	Disclaimer         string  `json:"disclaimer"`
}
