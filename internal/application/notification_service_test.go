package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/notifier"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/testutil"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
)

type notificationFixture struct {
	notifications *testutil.MockNotificationRepository
	users         *testutil.MockUserRepository
	blocked       *testutil.MockBlockedEmailRepository
	publisher     *testutil.MockEmailPublisher
	svc           *NotificationApplicationService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		notifications: testutil.NewMockNotificationRepository(),
		users:         testutil.NewMockUserRepository(),
		blocked:       testutil.NewMockBlockedEmailRepository(),
		publisher:     testutil.NewMockEmailPublisher(),
	}
	f.svc = NewNotificationApplicationService(f.notifications, f.users, f.blocked, f.publisher, testLogger(), nil)
	return f
}

func TestNotificationService_NotifyUser(t *testing.T) {
	t.Run("creates an unread notification and emits an email event", func(t *testing.T) {
		f := newNotificationFixture()

		id, err := f.svc.NotifyUser(context.Background(), NotifyUserCommand{
			UserEmail: "User@Example.COM",
			Title:     "Shipment delayed",
			Message:   "Your shipment is running late.",
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		stored := f.notifications.Get(id)
		require.NotNil(t, stored)
		assert.Equal(t, "user@example.com", stored.UserEmail)
		assert.False(t, stored.Read)

		require.Len(t, f.publisher.Published, 1)
		assert.Equal(t, "notification.created", f.publisher.Published[0].Type)
		assert.Equal(t, "user@example.com", f.publisher.Published[0].Recipient)
	})

	t.Run("rejects a missing email", func(t *testing.T) {
		f := newNotificationFixture()

		_, err := f.svc.NotifyUser(context.Background(), NotifyUserCommand{Title: "x", Message: "y"})
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	})

	t.Run("publisher failure does not fail the operation", func(t *testing.T) {
		f := newNotificationFixture()
		f.publisher.PublishEmailFunc = func(ctx context.Context, event *notifier.EmailEvent) error {
			return assert.AnError
		}

		id, err := f.svc.NotifyUser(context.Background(), NotifyUserCommand{
			UserEmail: "user@example.com",
			Title:     "Title",
			Message:   "Message",
		})
		require.NoError(t, err)
		assert.NotNil(t, f.notifications.Get(id))
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	f := newNotificationFixture()

	n, err := domain.NewNotification("user@example.com", "Title", "Message")
	require.NoError(t, err)
	id := f.notifications.AddNotification(n)

	t.Run("marks the notification read", func(t *testing.T) {
		require.NoError(t, f.svc.MarkRead(context.Background(), id))
		assert.True(t, f.notifications.Get(id).Read)
	})

	t.Run("repeating the call is a no-op", func(t *testing.T) {
		require.NoError(t, f.svc.MarkRead(context.Background(), id))
		assert.True(t, f.notifications.Get(id).Read)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		err := f.svc.MarkRead(context.Background(), "ffffffffffffffffffffffff")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})
}

func TestNotificationService_DeleteOwned(t *testing.T) {
	owner := &identity.Identity{UserID: "u1", Email: "owner@example.com", Role: identity.RoleUser}

	t.Run("owner deletes own notification", func(t *testing.T) {
		f := newNotificationFixture()
		n, err := domain.NewNotification("owner@example.com", "Title", "Message")
		require.NoError(t, err)
		id := f.notifications.AddNotification(n)

		require.NoError(t, f.svc.DeleteOwned(context.Background(), owner, id))
		assert.Nil(t, f.notifications.Get(id))
	})

	t.Run("ownership mismatch reports not found, record stays", func(t *testing.T) {
		f := newNotificationFixture()
		n, err := domain.NewNotification("someone-else@example.com", "Title", "Message")
		require.NoError(t, err)
		id := f.notifications.AddNotification(n)

		err = f.svc.DeleteOwned(context.Background(), owner, id)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
		assert.NotNil(t, f.notifications.Get(id))
	})

	t.Run("caller without email is rejected", func(t *testing.T) {
		f := newNotificationFixture()
		err := f.svc.DeleteOwned(context.Background(), &identity.Identity{UserID: "u1"}, "any")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	})
}

func TestNotificationService_List(t *testing.T) {
	f := newNotificationFixture()

	for _, email := range []string{"owner@example.com", "owner@example.com", "other@example.com"} {
		n, err := domain.NewNotification(email, "Title", "Message")
		require.NoError(t, err)
		f.notifications.AddNotification(n)
	}

	t.Run("returns only the caller's notifications", func(t *testing.T) {
		dtos, err := f.svc.List(context.Background(), &identity.Identity{Email: "owner@example.com", Role: identity.RoleUser})
		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})

	t.Run("caller without email gets an empty set", func(t *testing.T) {
		dtos, err := f.svc.List(context.Background(), &identity.Identity{UserID: "u1"})
		require.NoError(t, err)
		assert.Empty(t, dtos)
	})
}

func TestNotificationService_ListDeletedUsers(t *testing.T) {
	f := newNotificationFixture()
	f.users.Users = []domain.User{
		{Name: "Active", Email: "active@example.com"},
		{Name: "Gone", Email: "gone@example.com", IsDeleted: true},
	}

	dtos, err := f.svc.ListDeletedUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "gone@example.com", dtos[0].Email)
}

func TestNotificationService_RestoreBlockedEmail(t *testing.T) {
	t.Run("deletes the record, notifies and emails the address", func(t *testing.T) {
		f := newNotificationFixture()
		id := f.blocked.AddBlocked(&domain.BlockedEmail{Email: "banned@example.com", Reason: "chargeback"})

		require.NoError(t, f.svc.RestoreBlockedEmail(context.Background(), id))

		assert.False(t, f.blocked.Has(id))

		dtos, err := f.svc.List(context.Background(), &identity.Identity{Email: "banned@example.com", Role: identity.RoleUser})
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Account restored", dtos[0].Title)

		require.Len(t, f.publisher.Published, 1)
		assert.Equal(t, "account.restored", f.publisher.Published[0].Type)
		assert.Equal(t, "banned@example.com", f.publisher.Published[0].Recipient)
	})

	t.Run("unknown id short-circuits before any side effect", func(t *testing.T) {
		f := newNotificationFixture()

		err := f.svc.RestoreBlockedEmail(context.Background(), "ffffffffffffffffffffffff")
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)

		assert.Empty(t, f.publisher.Published)
	})

	t.Run("notification failure after delete is tolerated", func(t *testing.T) {
		f := newNotificationFixture()
		id := f.blocked.AddBlocked(&domain.BlockedEmail{Email: "banned@example.com"})

		f.notifications.InsertFunc = func(ctx context.Context, notification *domain.Notification) (string, error) {
			return "", assert.AnError
		}

		require.NoError(t, f.svc.RestoreBlockedEmail(context.Background(), id))
		assert.False(t, f.blocked.Has(id))
		assert.Len(t, f.publisher.Published, 1)
	})

	t.Run("email publish failure after delete is tolerated", func(t *testing.T) {
		f := newNotificationFixture()
		id := f.blocked.AddBlocked(&domain.BlockedEmail{Email: "banned@example.com"})

		f.publisher.PublishEmailFunc = func(ctx context.Context, event *notifier.EmailEvent) error {
			return assert.AnError
		}

		require.NoError(t, f.svc.RestoreBlockedEmail(context.Background(), id))
		assert.False(t, f.blocked.Has(id))
	})
}
