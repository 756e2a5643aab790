package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBlockedEmailNotFound = errors.New("blocked email not found")
	ErrMissingEmail         = errors.New("email is required")
)

// User is an account record. Deletion is soft: the record stays in the
// store with isDeleted set and deletedAt stamped.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
	DeletedAt *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Notification is a message addressed to a user's email. The email is the
// delivery and ownership key: mutation requires the owning email to match.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewNotification creates an unread notification
func NewNotification(userEmail, title, message string) (*Notification, error) {
	email := strings.ToLower(strings.TrimSpace(userEmail))
	if email == "" {
		return nil, ErrMissingEmail
	}
	return &Notification{
		UserEmail: email,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// BlockedEmail is a soft-ban record. Deleting it is the restore action
// and triggers a compensating notification to the affected address.
type BlockedEmail struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	BlockedAt time.Time          `bson:"blockedAt" json:"blockedAt"`
}
