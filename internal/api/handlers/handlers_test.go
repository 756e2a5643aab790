package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/application"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/testutil"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
)

type testEnv struct {
	router        *gin.Engine
	shipments     *testutil.MockShipmentRepository
	history       *testutil.MockTrackingHistoryRepository
	notifications *testutil.MockNotificationRepository
	users         *testutil.MockUserRepository
	blocked       *testutil.MockBlockedEmailRepository
	publisher     *testutil.MockEmailPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	cfg := logging.DefaultConfig("test")
	cfg.Output = io.Discard
	logger := logging.New(cfg)

	env := &testEnv{
		shipments:     testutil.NewMockShipmentRepository(),
		history:       testutil.NewMockTrackingHistoryRepository(),
		notifications: testutil.NewMockNotificationRepository(),
		users:         testutil.NewMockUserRepository(),
		blocked:       testutil.NewMockBlockedEmailRepository(),
		publisher:     testutil.NewMockEmailPublisher(),
	}

	shipmentSvc := application.NewShipmentApplicationService(env.shipments, env.history, logger, nil)
	notificationSvc := application.NewNotificationApplicationService(
		env.notifications, env.users, env.blocked, env.publisher, logger, nil,
	)

	env.router = gin.New()
	RegisterRoutes(env.router,
		NewShipmentHandler(shipmentSvc, logger),
		NewNotificationHandler(notificationSvc, logger),
		NewAdminHandler(notificationSvc, logger),
	)
	return env
}

type identityHeaders struct {
	userID string
	email  string
	role   string
}

var (
	asUser  = identityHeaders{userID: "user-1", email: "user@example.com", role: "USER"}
	asAdmin = identityHeaders{userID: "admin-1", email: "admin@example.com", role: "ADMIN"}
)

func (e *testEnv) do(method, path string, body any, id identityHeaders) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id.userID != "" {
		req.Header.Set(middleware.HeaderUserID, id.userID)
	}
	if id.email != "" {
		req.Header.Set(middleware.HeaderUserEmail, id.email)
	}
	if id.role != "" {
		req.Header.Set(middleware.HeaderUserRole, id.role)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	body := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedShipment(t *testing.T, env *testEnv, userID, email string) *domain.Shipment {
	t.Helper()
	s, err := domain.NewShipment(userID, email, "US", "created")
	require.NoError(t, err)
	env.shipments.AddShipment(s)
	return s
}

func TestCreateShipment(t *testing.T) {
	t.Run("authenticated caller creates a shipment", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/shipments", gin.H{"originCountry": "DE"}, asUser)
		require.Equal(t, http.StatusCreated, w.Code)

		body := decodeBody(t, w)
		var dto application.ShipmentDTO
		require.NoError(t, json.Unmarshal(body["data"], &dto))
		assert.NotEmpty(t, dto.ShipmentID)
		assert.NotEmpty(t, dto.TrackingNumber)
		assert.Equal(t, "user-1", dto.CreatedByUserID)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/shipments", gin.H{}, identityHeaders{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid origin country fails validation", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/shipments", gin.H{"originCountry": "USA"}, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("existing shipment transitions", func(t *testing.T) {
		env := newTestEnv(t)
		s := seedShipment(t, env, "user-1", "user@example.com")

		w := env.do(http.MethodPost, "/api/v1/shipments/status", gin.H{
			"shipmentId": s.ShipmentID,
			"status":     "in transit",
			"statusNote": "left origin hub",
		}, asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok": true}`, w.Body.String())

		assert.Equal(t, "in transit", env.shipments.Get(s.ShipmentID).Status)
		require.Len(t, env.history.Events, 1)
	})

	t.Run("malformed shipment id fails validation", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/shipments/status", gin.H{
			"shipmentId": "not-a-shipment-id",
			"status":     "in transit",
		}, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown shipment reports not found", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/shipments/status", gin.H{
			"shipmentId": "EXS-240101-FFFFFF",
			"status":     "delivered",
		}, asUser)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetShipment(t *testing.T) {
	env := newTestEnv(t)
	s := seedShipment(t, env, "user-1", "user@example.com")

	t.Run("owner reads own shipment", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments/"+s.ShipmentID, nil, asUser)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var dto application.ShipmentDTO
		require.NoError(t, json.Unmarshal(body["data"], &dto))
		assert.Equal(t, s.ShipmentID, dto.ShipmentID)
	})

	t.Run("stranger gets not found, not forbidden", func(t *testing.T) {
		stranger := identityHeaders{userID: "other", email: "other@example.com", role: "USER"}
		w := env.do(http.MethodGet, "/api/v1/shipments/"+s.ShipmentID, nil, stranger)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin reads any shipment", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments/"+s.ShipmentID, nil, asAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListShipments(t *testing.T) {
	env := newTestEnv(t)
	seedShipment(t, env, "user-1", "user@example.com")
	seedShipment(t, env, "other", "other@example.com")

	t.Run("caller sees only owned shipments", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments", nil, asUser)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var results []application.ShipmentDTO
		require.NoError(t, json.Unmarshal(body["results"], &results))
		assert.Len(t, results, 1)
	})

	t.Run("malformed limit is rejected", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments?limit=abc", nil, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments?limit=10", nil, asAdmin)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var results []application.ShipmentDTO
		require.NoError(t, json.Unmarshal(body["results"], &results))
		assert.Len(t, results, 2)
	})
}

func TestSearchShipments(t *testing.T) {
	env := newTestEnv(t)
	s := seedShipment(t, env, "user-1", "user@example.com")

	t.Run("prefix match returns summaries", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments/search?q="+s.ShipmentID[:10], nil, asUser)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var items []application.ShipmentSummaryDTO
		require.NoError(t, json.Unmarshal(body["items"], &items))
		require.NotEmpty(t, items)
		assert.Equal(t, s.ShipmentID, items[0].ShipmentID)
	})

	t.Run("empty query yields an empty set", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/shipments/search", nil, asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items": []}`, w.Body.String())
	})
}

func TestGetTrackingHistory(t *testing.T) {
	env := newTestEnv(t)
	s := seedShipment(t, env, "user-1", "user@example.com")

	w := env.do(http.MethodPost, "/api/v1/shipments/status", gin.H{
		"shipmentId": s.ShipmentID,
		"status":     "delivered",
	}, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/shipments/"+s.ShipmentID+"/history", nil, asUser)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	var events []application.TrackingEventDTO
	require.NoError(t, json.Unmarshal(body["events"], &events))
	require.Len(t, events, 1)
	assert.Equal(t, "delivered", events[0].Status)
}

func TestCreateQuote(t *testing.T) {
	t.Run("returns a placeholder quote", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/quotes", gin.H{
			"originCountry":      "US",
			"destinationCountry": "DE",
			"weightKg":           2.5,
		}, asUser)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var quote application.QuoteDTO
		require.NoError(t, json.Unmarshal(body["data"], &quote))
		assert.Equal(t, "USD", quote.Currency)
		assert.NotEmpty(t, quote.Disclaimer)
	})

	t.Run("rejects a missing weight", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/quotes", gin.H{
			"originCountry":      "US",
			"destinationCountry": "DE",
		}, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	t.Run("list returns the caller's notifications", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := domain.NewNotification("user@example.com", "Title", "Message")
		require.NoError(t, err)
		env.notifications.AddNotification(n)

		w := env.do(http.MethodGet, "/api/v1/notifications", nil, asUser)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var notifications []application.NotificationDTO
		require.NoError(t, json.Unmarshal(body["notifications"], &notifications))
		assert.Len(t, notifications, 1)
	})

	t.Run("mark read twice stays ok", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := domain.NewNotification("user@example.com", "Title", "Message")
		require.NoError(t, err)
		id := env.notifications.AddNotification(n)

		for i := 0; i < 2; i++ {
			w := env.do(http.MethodPost, "/api/v1/notifications/"+id+"/read", nil, asUser)
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.True(t, env.notifications.Get(id).Read)
	})

	t.Run("delete of an unowned notification reports not found", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := domain.NewNotification("other@example.com", "Title", "Message")
		require.NoError(t, err)
		id := env.notifications.AddNotification(n)

		w := env.do(http.MethodDelete, "/api/v1/notifications/"+id, nil, asUser)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotNil(t, env.notifications.Get(id))
	})

	t.Run("owner deletes own notification", func(t *testing.T) {
		env := newTestEnv(t)
		n, err := domain.NewNotification("user@example.com", "Title", "Message")
		require.NoError(t, err)
		id := env.notifications.AddNotification(n)

		w := env.do(http.MethodDelete, "/api/v1/notifications/"+id, nil, asUser)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, env.notifications.Get(id))
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("anonymous caller gets 401", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(http.MethodGet, "/api/v1/admin/users/deleted", nil, identityHeaders{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin caller gets 403", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(http.MethodGet, "/api/v1/admin/users/deleted", nil, asUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin lists deleted users", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.Users = []domain.User{
			{Name: "Gone", Email: "gone@example.com", IsDeleted: true},
			{Name: "Active", Email: "active@example.com"},
		}

		w := env.do(http.MethodGet, "/api/v1/admin/users/deleted", nil, asAdmin)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		var users []application.DeletedUserDTO
		require.NoError(t, json.Unmarshal(body["users"], &users))
		require.Len(t, users, 1)
		assert.Equal(t, "gone@example.com", users[0].Email)
	})

	t.Run("restore deletes the block and notifies the address", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.blocked.AddBlocked(&domain.BlockedEmail{Email: "banned@example.com"})

		w := env.do(http.MethodPost, "/api/v1/admin/blocked-emails/"+id+"/restore", nil, asAdmin)
		require.Equal(t, http.StatusOK, w.Code)

		assert.False(t, env.blocked.Has(id))
		require.Len(t, env.publisher.Published, 1)
		assert.Equal(t, "banned@example.com", env.publisher.Published[0].Recipient)
	})

	t.Run("restore of an unknown id reports not found", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/admin/blocked-emails/ffffffffffffffffffffffff/restore", nil, asAdmin)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, env.publisher.Published)
	})

	t.Run("non-admin cannot restore", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.blocked.AddBlocked(&domain.BlockedEmail{Email: "banned@example.com"})

		w := env.do(http.MethodPost, "/api/v1/admin/blocked-emails/"+id+"/restore", nil, asUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.True(t, env.blocked.Has(id))
	})
}
