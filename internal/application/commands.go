package application

// CreateShipmentCommand creates a shipment for the calling identity
type CreateShipmentCommand struct {
	OriginCountry string `json:"originCountry" binding:"omitempty,len=2,alpha"`
	InitialStatus string `json:"initialStatus" binding:"omitempty,max=64,safe_string"`
}

// UpdateStatusCommand applies a status transition to a shipment
type UpdateStatusCommand struct {
	ShipmentID string `json:"shipmentId" binding:"required,shipment_id"`
	Status     string `json:"status" binding:"required,max=64,safe_string"`
	StatusNote string `json:"statusNote" binding:"omitempty,max=500"`
}

// QuoteCommand requests a placeholder shipping quote
type QuoteCommand struct {
	OriginCountry      string  `json:"originCountry" binding:"required,len=2,alpha"`
	DestinationCountry string  `json:"destinationCountry" binding:"required,len=2,alpha"`
	WeightKg           float64 `json:"weightKg" binding:"required,gt=0,lte=1000"`
}

// NotifyUserCommand creates a notification addressed to an email
type NotifyUserCommand struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
	Title     string `json:"title" binding:"required,max=200"`
	Message   string `json:"message" binding:"required,max=2000"`
}
