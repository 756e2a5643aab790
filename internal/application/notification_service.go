package application

import (
	"context"
	"fmt"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/notifier"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
)

// NotificationApplicationService handles notification use cases and the
// restore saga
type NotificationApplicationService struct {
	notifications domain.NotificationRepository
	users         domain.UserRepository
	blocked       domain.BlockedEmailRepository
	publisher     notifier.EmailPublisher
	logger        *logging.Logger
	metrics       *metrics.Metrics
}

// NewNotificationApplicationService creates a new
// NotificationApplicationService
func NewNotificationApplicationService(
	notifications domain.NotificationRepository,
	users domain.UserRepository,
	blocked domain.BlockedEmailRepository,
	publisher notifier.EmailPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *NotificationApplicationService {
	return &NotificationApplicationService{
		notifications: notifications,
		users:         users,
		blocked:       blocked,
		publisher:     publisher,
		logger:        logger,
		metrics:       m,
	}
}

// NotifyUser creates an unread notification and emits a best-effort email
// event. A failed email emission is logged and never fails the operation.
func (s *NotificationApplicationService) NotifyUser(ctx context.Context, cmd NotifyUserCommand) (string, error) {
	notification, err := domain.NewNotification(cmd.UserEmail, cmd.Title, cmd.Message)
	if err != nil {
		return "", errors.ErrValidation(err.Error())
	}

	id, err := s.notifications.Insert(ctx, notification)
	if err != nil {
		s.logger.WithError(err).Error("Failed to insert notification", "userEmail", notification.UserEmail)
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationEmitted("user")
	}

	s.emitEmail(ctx, "notification.created", notification.UserEmail, notification.Title, notification.Message)

	return id, nil
}

// MarkRead sets a notification to read. Repeating the call is a no-op,
// not an error.
func (s *NotificationApplicationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if err == domain.ErrNotificationNotFound {
			return errors.ErrNotFoundWithID("notification", id)
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// DeleteOwned deletes a notification only when the caller's email owns
// it. An ownership mismatch reports the same not-found as an unknown id.
func (s *NotificationApplicationService) DeleteOwned(ctx context.Context, caller *identity.Identity, id string) error {
	if caller == nil || caller.Email == "" {
		return errors.ErrValidation("caller identity has no email")
	}

	if err := s.notifications.DeleteOwned(ctx, id, caller.Email); err != nil {
		if err == domain.ErrNotificationNotFound {
			return errors.ErrNotFoundWithID("notification", id)
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// List returns the caller's notifications, newest first
func (s *NotificationApplicationService) List(ctx context.Context, caller *identity.Identity) ([]NotificationDTO, error) {
	if caller == nil || caller.Email == "" {
		return []NotificationDTO{}, nil
	}

	notifications, err := s.notifications.ListByEmail(ctx, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos, nil
}

// ListDeletedUsers returns soft-deleted accounts for the admin surface
func (s *NotificationApplicationService) ListDeletedUsers(ctx context.Context) ([]DeletedUserDTO, error) {
	users, err := s.users.FindDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted users: %w", err)
	}

	dtos := make([]DeletedUserDTO, len(users))
	for i := range users {
		dtos[i] = ToDeletedUserDTO(&users[i])
	}
	return dtos, nil
}

// RestoreBlockedEmail runs the two-step restore saga: delete the soft-ban
// record, then notify the affected address. An unknown id short-circuits
// before any side effect. A failed notification is logged and does not
// roll back the delete.
func (s *NotificationApplicationService) RestoreBlockedEmail(ctx context.Context, id string) error {
	blocked, err := s.blocked.Delete(ctx, id)
	if err != nil {
		if err == domain.ErrBlockedEmailNotFound {
			return errors.ErrNotFoundWithID("blocked email", id)
		}
		s.logger.WithError(err).Error("Failed to delete blocked email", "blockedId", id)
		return fmt.Errorf("failed to restore blocked email: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordEmailRestored()
	}

	notification, err := domain.NewNotification(
		blocked.Email,
		"Account restored",
		"Your account has been restored and you can sign in again.",
	)
	if err == nil {
		if _, err := s.notifications.Insert(ctx, notification); err != nil {
			s.logger.WithError(err).Error("Restore notification failed after delete",
				"blockedId", id,
				"userEmail", blocked.Email,
			)
		} else if s.metrics != nil {
			s.metrics.RecordNotificationEmitted("restore")
		}
	} else {
		s.logger.WithError(err).Warn("Blocked record carries no usable email", "blockedId", id)
	}

	s.emitEmail(ctx, "account.restored", blocked.Email,
		"Account restored",
		"Your account has been restored and you can sign in again.",
	)

	s.logger.Audit(ctx, "blocked_email.restored", "blocked_email", id, "", map[string]any{
		"userEmail": blocked.Email,
	})

	return nil
}

// emitEmail publishes a fire-and-forget email event
func (s *NotificationApplicationService) emitEmail(ctx context.Context, eventType, recipient, subject, body string) {
	if s.publisher == nil || recipient == "" {
		return
	}

	event := notifier.NewEmailEvent(eventType, recipient, subject, body)
	if err := s.publisher.PublishEmail(ctx, event); err != nil {
		s.logger.WithError(err).Warn("Email event emission failed",
			"eventType", eventType,
			"recipient", recipient,
		)
	}
}
