package testutil

import (
	"context"
	"sort"
	"strings"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
	mongohelpers "github.com/Mosco267/exodus-logistics-platform-sub001/pkg/mongodb"
)

// MockShipmentRepository is an in-memory implementation of
// domain.ShipmentRepository with per-method override hooks
type MockShipmentRepository struct {
	shipments map[string]*domain.Shipment

	InsertFunc           func(ctx context.Context, shipment *domain.Shipment) error
	FindByShipmentIDFunc func(ctx context.Context, shipmentID string, scope identity.Scope) (*domain.Shipment, error)
	UpdateStatusFunc     func(ctx context.Context, shipmentID string, change *domain.StatusChange) (int64, error)
	ListFunc             func(ctx context.Context, scope identity.Scope, limit int64) ([]domain.Shipment, error)
	SearchPrefixFunc     func(ctx context.Context, scope identity.Scope, query string, limit int64) ([]domain.Shipment, error)
}

// NewMockShipmentRepository creates a new mock repository
func NewMockShipmentRepository() *MockShipmentRepository {
	return &MockShipmentRepository{shipments: make(map[string]*domain.Shipment)}
}

// AddShipment seeds the mock with a shipment
func (m *MockShipmentRepository) AddShipment(shipment *domain.Shipment) {
	m.shipments[shipment.ShipmentID] = shipment
}

// Get returns a seeded shipment by id
func (m *MockShipmentRepository) Get(shipmentID string) *domain.Shipment {
	return m.shipments[shipmentID]
}

func visible(s *domain.Shipment, scope identity.Scope) bool {
	if scope.Unrestricted() {
		return true
	}
	if scope.Empty() {
		return false
	}
	if scope.UserID != "" && s.CreatedByUserID == scope.UserID {
		return true
	}
	return scope.Email != "" && s.CreatedByEmail == scope.Email
}

// Insert implements domain.ShipmentRepository
func (m *MockShipmentRepository) Insert(ctx context.Context, shipment *domain.Shipment) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, shipment)
	}
	for _, existing := range m.shipments {
		if existing.ShipmentID == shipment.ShipmentID || existing.TrackingNumber == shipment.TrackingNumber {
			return domain.ErrDuplicateIdentifier
		}
	}
	m.shipments[shipment.ShipmentID] = shipment
	return nil
}

// FindByShipmentID implements domain.ShipmentRepository
func (m *MockShipmentRepository) FindByShipmentID(ctx context.Context, shipmentID string, scope identity.Scope) (*domain.Shipment, error) {
	if m.FindByShipmentIDFunc != nil {
		return m.FindByShipmentIDFunc(ctx, shipmentID, scope)
	}
	shipment, ok := m.shipments[shipmentID]
	if !ok || !visible(shipment, scope) {
		return nil, domain.ErrShipmentNotFound
	}
	return shipment, nil
}

// UpdateStatus implements domain.ShipmentRepository
func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, shipmentID string, change *domain.StatusChange) (int64, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, shipmentID, change)
	}
	shipment, ok := m.shipments[shipmentID]
	if !ok {
		return 0, nil
	}
	shipment.Apply(change)
	return 1, nil
}

// List implements domain.ShipmentRepository
func (m *MockShipmentRepository) List(ctx context.Context, scope identity.Scope, limit int64) ([]domain.Shipment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope, limit)
	}
	result := []domain.Shipment{}
	for _, shipment := range m.shipments {
		if visible(shipment, scope) {
			result = append(result, *shipment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SearchPrefix implements domain.ShipmentRepository
func (m *MockShipmentRepository) SearchPrefix(ctx context.Context, scope identity.Scope, query string, limit int64) ([]domain.Shipment, error) {
	if m.SearchPrefixFunc != nil {
		return m.SearchPrefixFunc(ctx, scope, query, limit)
	}
	prefix := strings.ToUpper(strings.TrimSpace(query))
	result := []domain.Shipment{}
	for _, shipment := range m.shipments {
		if !visible(shipment, scope) {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(shipment.ShipmentID), prefix) ||
			strings.HasPrefix(strings.ToUpper(shipment.TrackingNumber), prefix) {
			result = append(result, *shipment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MockTrackingHistoryRepository is an in-memory implementation of
// domain.TrackingHistoryRepository
type MockTrackingHistoryRepository struct {
	Events []domain.TrackingEvent

	AppendFunc         func(ctx context.Context, event *domain.TrackingEvent) error
	ListByShipmentFunc func(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error)
}

// NewMockTrackingHistoryRepository creates a new mock repository
func NewMockTrackingHistoryRepository() *MockTrackingHistoryRepository {
	return &MockTrackingHistoryRepository{}
}

// Append implements domain.TrackingHistoryRepository
func (m *MockTrackingHistoryRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	m.Events = append(m.Events, *event)
	return nil
}

// ListByShipment implements domain.TrackingHistoryRepository
func (m *MockTrackingHistoryRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	if m.ListByShipmentFunc != nil {
		return m.ListByShipmentFunc(ctx, shipmentID)
	}
	result := []domain.TrackingEvent{}
	for _, event := range m.Events {
		if event.ShipmentID == shipmentID {
			result = append(result, event)
		}
	}
	return result, nil
}

// MockUserRepository is an in-memory implementation of
// domain.UserRepository
type MockUserRepository struct {
	Users []domain.User

	FindDeletedFunc func(ctx context.Context) ([]domain.User, error)
}

// NewMockUserRepository creates a new mock repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// FindDeleted implements domain.UserRepository
func (m *MockUserRepository) FindDeleted(ctx context.Context) ([]domain.User, error) {
	if m.FindDeletedFunc != nil {
		return m.FindDeletedFunc(ctx)
	}
	result := []domain.User{}
	for _, user := range m.Users {
		if user.IsDeleted {
			result = append(result, user)
		}
	}
	return result, nil
}

// MockNotificationRepository is an in-memory implementation of
// domain.NotificationRepository
type MockNotificationRepository struct {
	notifications map[string]*domain.Notification

	InsertFunc      func(ctx context.Context, notification *domain.Notification) (string, error)
	MarkReadFunc    func(ctx context.Context, id string) error
	DeleteOwnedFunc func(ctx context.Context, id, ownerEmail string) error
	ListByEmailFunc func(ctx context.Context, email string) ([]domain.Notification, error)
}

// NewMockNotificationRepository creates a new mock repository
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{notifications: make(map[string]*domain.Notification)}
}

// AddNotification seeds the mock and returns the generated id
func (m *MockNotificationRepository) AddNotification(notification *domain.Notification) string {
	if notification.ID.IsZero() {
		notification.ID = mongohelpers.GenerateID()
	}
	id := notification.ID.Hex()
	m.notifications[id] = notification
	return id
}

// Get returns a seeded notification by id
func (m *MockNotificationRepository) Get(id string) *domain.Notification {
	return m.notifications[id]
}

// Insert implements domain.NotificationRepository
func (m *MockNotificationRepository) Insert(ctx context.Context, notification *domain.Notification) (string, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, notification)
	}
	return m.AddNotification(notification), nil
}

// MarkRead implements domain.NotificationRepository
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id)
	}
	notification, ok := m.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	notification.Read = true
	return nil
}

// DeleteOwned implements domain.NotificationRepository
func (m *MockNotificationRepository) DeleteOwned(ctx context.Context, id, ownerEmail string) error {
	if m.DeleteOwnedFunc != nil {
		return m.DeleteOwnedFunc(ctx, id, ownerEmail)
	}
	notification, ok := m.notifications[id]
	if !ok || notification.UserEmail != ownerEmail {
		return domain.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}

// ListByEmail implements domain.NotificationRepository
func (m *MockNotificationRepository) ListByEmail(ctx context.Context, email string) ([]domain.Notification, error) {
	if m.ListByEmailFunc != nil {
		return m.ListByEmailFunc(ctx, email)
	}
	result := []domain.Notification{}
	for _, notification := range m.notifications {
		if notification.UserEmail == email {
			result = append(result, *notification)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// MockBlockedEmailRepository is an in-memory implementation of
// domain.BlockedEmailRepository
type MockBlockedEmailRepository struct {
	blocked map[string]*domain.BlockedEmail

	DeleteFunc func(ctx context.Context, id string) (*domain.BlockedEmail, error)
}

// NewMockBlockedEmailRepository creates a new mock repository
func NewMockBlockedEmailRepository() *MockBlockedEmailRepository {
	return &MockBlockedEmailRepository{blocked: make(map[string]*domain.BlockedEmail)}
}

// AddBlocked seeds the mock and returns the generated id
func (m *MockBlockedEmailRepository) AddBlocked(blocked *domain.BlockedEmail) string {
	if blocked.ID.IsZero() {
		blocked.ID = mongohelpers.GenerateID()
	}
	id := blocked.ID.Hex()
	m.blocked[id] = blocked
	return id
}

// Has reports whether a record is still present
func (m *MockBlockedEmailRepository) Has(id string) bool {
	_, ok := m.blocked[id]
	return ok
}

// Delete implements domain.BlockedEmailRepository
func (m *MockBlockedEmailRepository) Delete(ctx context.Context, id string) (*domain.BlockedEmail, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	blocked, ok := m.blocked[id]
	if !ok {
		return nil, domain.ErrBlockedEmailNotFound
	}
	delete(m.blocked, id)
	return blocked, nil
}
