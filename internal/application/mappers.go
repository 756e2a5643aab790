package application

import "github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"

// ToShipmentDTO converts a shipment aggregate to its external form
func ToShipmentDTO(s *domain.Shipment) *ShipmentDTO {
	return &ShipmentDTO{
		ShipmentID:      s.ShipmentID,
		TrackingNumber:  s.TrackingNumber,
		CreatedByUserID: s.CreatedByUserID,
		CreatedByEmail:  s.CreatedByEmail,
		OriginCountry:   s.OriginCountry,
		Status:          s.Status,
		StatusNote:      s.StatusNote,
		StatusUpdatedAt: s.StatusUpdatedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		CancelledAt:     s.CancelledAt,
	}
}

// ToShipmentSummaryDTO converts a shipment to its search projection
func ToShipmentSummaryDTO(s *domain.Shipment) ShipmentSummaryDTO {
	return ShipmentSummaryDTO{
		ShipmentID:     s.ShipmentID,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
}

// ToTrackingEventDTO converts a tracking event to its external form
func ToTrackingEventDTO(e *domain.TrackingEvent) TrackingEventDTO {
	return TrackingEventDTO{
		ShipmentID: e.ShipmentID,
		Status:     e.Status,
		Note:       e.Note,
		RecordedAt: e.RecordedAt,
	}
}

// ToNotificationDTO converts a notification to its external form
func ToNotificationDTO(n *domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID.Hex(),
		UserEmail: n.UserEmail,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ToDeletedUserDTO converts a user record to the admin listing projection
func ToDeletedUserDTO(u *domain.User) DeletedUserDTO {
	return DeletedUserDTO{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		DeletedAt: u.DeletedAt,
	}
}
