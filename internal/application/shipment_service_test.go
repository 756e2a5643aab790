package application

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/testutil"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func adminIdentity() *identity.Identity {
	return &identity.Identity{UserID: "admin-1", Email: "admin@example.com", Role: identity.RoleAdmin}
}

func userIdentity() *identity.Identity {
	return &identity.Identity{UserID: "user-1", Email: "user@example.com", Role: identity.RoleUser}
}

func newShipmentService(shipments *testutil.MockShipmentRepository, history *testutil.MockTrackingHistoryRepository) *ShipmentApplicationService {
	return NewShipmentApplicationService(shipments, history, testLogger(), nil)
}

func seedShipment(t *testing.T, repo *testutil.MockShipmentRepository, userID, email string) *domain.Shipment {
	t.Helper()
	s, err := domain.NewShipment(userID, email, "US", "created")
	require.NoError(t, err)
	repo.AddShipment(s)
	return s
}

func TestShipmentService_Create(t *testing.T) {
	t.Run("creates shipment with issued identifiers", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		history := testutil.NewMockTrackingHistoryRepository()
		svc := newShipmentService(shipments, history)

		dto, err := svc.Create(context.Background(), userIdentity(), CreateShipmentCommand{OriginCountry: "DE"})
		require.NoError(t, err)

		assert.NotEmpty(t, dto.ShipmentID)
		assert.NotEmpty(t, dto.TrackingNumber)
		assert.Equal(t, "user-1", dto.CreatedByUserID)
		assert.Equal(t, "user@example.com", dto.CreatedByEmail)

		require.Len(t, history.Events, 1)
		assert.Equal(t, dto.ShipmentID, history.Events[0].ShipmentID)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		svc := newShipmentService(testutil.NewMockShipmentRepository(), testutil.NewMockTrackingHistoryRepository())

		_, err := svc.Create(context.Background(), nil, CreateShipmentCommand{})
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeUnauthorized, appErr.Code)
	})

	t.Run("reissues identifiers on duplicate conflicts", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		history := testutil.NewMockTrackingHistoryRepository()
		svc := newShipmentService(shipments, history)

		conflicts := 2
		shipments.InsertFunc = func(ctx context.Context, shipment *domain.Shipment) error {
			if conflicts > 0 {
				conflicts--
				return domain.ErrDuplicateIdentifier
			}
			return nil
		}

		dto, err := svc.Create(context.Background(), userIdentity(), CreateShipmentCommand{})
		require.NoError(t, err)
		assert.NotEmpty(t, dto.ShipmentID)
		assert.Zero(t, conflicts)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		attempts := 0
		shipments.InsertFunc = func(ctx context.Context, shipment *domain.Shipment) error {
			attempts++
			return domain.ErrDuplicateIdentifier
		}

		_, err := svc.Create(context.Background(), userIdentity(), CreateShipmentCommand{})
		require.Error(t, err)
		assert.Equal(t, maxInsertAttempts, attempts)
	})
}

func TestShipmentService_UpdateStatus(t *testing.T) {
	t.Run("cancellation scenario", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		history := testutil.NewMockTrackingHistoryRepository()
		svc := newShipmentService(shipments, history)

		s := seedShipment(t, shipments, "user-1", "user@example.com")

		err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
			ShipmentID: s.ShipmentID,
			Status:     "cancelled",
		})
		require.NoError(t, err)

		updated := shipments.Get(s.ShipmentID)
		assert.Equal(t, "cancelled", updated.Status)
		assert.Empty(t, updated.StatusNote)
		assert.NotNil(t, updated.CancelledAt)

		require.Len(t, history.Events, 1)
		assert.Equal(t, "cancelled", history.Events[0].Status)
	})

	t.Run("later transition keeps cancellation marker", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		s := seedShipment(t, shipments, "user-1", "")
		require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: s.ShipmentID, Status: "Cancelled"}))
		require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: s.ShipmentID, Status: "In Transit"}))

		updated := shipments.Get(s.ShipmentID)
		assert.Equal(t, "In Transit", updated.Status)
		assert.NotNil(t, updated.CancelledAt)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := newShipmentService(testutil.NewMockShipmentRepository(), testutil.NewMockTrackingHistoryRepository())

		for _, cmd := range []UpdateStatusCommand{
			{ShipmentID: "", Status: "delivered"},
			{ShipmentID: "EXS-240101-ABCDEF", Status: ""},
		} {
			err := svc.UpdateStatus(context.Background(), cmd)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeValidationError, appErr.Code)
		}
	})

	t.Run("unknown shipment reports not found", func(t *testing.T) {
		svc := newShipmentService(testutil.NewMockShipmentRepository(), testutil.NewMockTrackingHistoryRepository())

		err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: "EXS-240101-FFFFFF", Status: "delivered"})
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})

	t.Run("history append failure does not fail the update", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		history := testutil.NewMockTrackingHistoryRepository()
		history.AppendFunc = func(ctx context.Context, event *domain.TrackingEvent) error {
			return assert.AnError
		}
		svc := newShipmentService(shipments, history)

		s := seedShipment(t, shipments, "user-1", "")
		err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: s.ShipmentID, Status: "delivered"})
		assert.NoError(t, err)
	})
}

func TestShipmentService_List(t *testing.T) {
	t.Run("caps the limit at fifty", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		for i := 0; i < 60; i++ {
			seedShipment(t, shipments, "admin-1", "")
		}

		results, err := svc.List(context.Background(), adminIdentity(), 500)
		require.NoError(t, err)
		assert.Len(t, results, maxListLimit)
	})

	t.Run("non-admin sees only owned shipments", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		mine := seedShipment(t, shipments, "user-1", "user@example.com")
		seedShipment(t, shipments, "someone-else", "other@example.com")

		results, err := svc.List(context.Background(), userIdentity(), 50)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, mine.ShipmentID, results[0].ShipmentID)
	})

	t.Run("scope without id or email yields nothing", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		seedShipment(t, shipments, "user-1", "user@example.com")

		results, err := svc.List(context.Background(), &identity.Identity{Role: identity.RoleUser}, 50)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestShipmentService_Search(t *testing.T) {
	t.Run("empty query returns empty set", func(t *testing.T) {
		svc := newShipmentService(testutil.NewMockShipmentRepository(), testutil.NewMockTrackingHistoryRepository())

		items, err := svc.Search(context.Background(), adminIdentity(), "   ")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("matches tracking number prefix case-insensitively", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		s := seedShipment(t, shipments, "admin-1", "")
		prefix := s.TrackingNumber[:3]

		items, err := svc.Search(context.Background(), adminIdentity(), prefix)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, s.TrackingNumber, items[0].TrackingNumber)
	})

	t.Run("caps results at eight", func(t *testing.T) {
		shipments := testutil.NewMockShipmentRepository()
		svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

		for i := 0; i < 12; i++ {
			seedShipment(t, shipments, "admin-1", "")
		}

		items, err := svc.Search(context.Background(), adminIdentity(), "EXS-")
		require.NoError(t, err)
		assert.Len(t, items, maxSearchResults)
	})
}

func TestShipmentService_Get(t *testing.T) {
	shipments := testutil.NewMockShipmentRepository()
	svc := newShipmentService(shipments, testutil.NewMockTrackingHistoryRepository())

	s := seedShipment(t, shipments, "user-1", "user@example.com")

	t.Run("owner fetches own shipment", func(t *testing.T) {
		dto, err := svc.Get(context.Background(), userIdentity(), s.ShipmentID)
		require.NoError(t, err)
		assert.Equal(t, s.ShipmentID, dto.ShipmentID)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		stranger := &identity.Identity{UserID: "other", Email: "other@example.com", Role: identity.RoleUser}
		_, err := svc.Get(context.Background(), stranger, s.ShipmentID)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeNotFound, appErr.Code)
	})
}

func TestShipmentService_History(t *testing.T) {
	shipments := testutil.NewMockShipmentRepository()
	history := testutil.NewMockTrackingHistoryRepository()
	svc := newShipmentService(shipments, history)

	t.Run("unknown shipment yields empty set", func(t *testing.T) {
		events, err := svc.History(context.Background(), "EXS-240101-FFFFFF")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("returns appended events", func(t *testing.T) {
		s := seedShipment(t, shipments, "user-1", "")
		require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: s.ShipmentID, Status: "in transit"}))
		require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusCommand{ShipmentID: s.ShipmentID, Status: "delivered"}))

		events, err := svc.History(context.Background(), s.ShipmentID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "in transit", events[0].Status)
		assert.Equal(t, "delivered", events[1].Status)
	})
}

func TestShipmentService_Quote(t *testing.T) {
	svc := newShipmentService(testutil.NewMockShipmentRepository(), testutil.NewMockTrackingHistoryRepository())

	quote := svc.Quote(context.Background(), QuoteCommand{OriginCountry: "us", DestinationCountry: "de", WeightKg: 2.5})
	assert.Equal(t, "US", quote.OriginCountry)
	assert.Equal(t, "DE", quote.DestinationCountry)
	assert.Equal(t, 2.5, quote.WeightKg)
	assert.NotEmpty(t, quote.Disclaimer)
	assert.Greater(t, quote.Amount, 0.0)
}
