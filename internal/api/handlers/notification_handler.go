package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/application"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	service *application.NotificationApplicationService
	logger  *logging.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *application.NotificationApplicationService, logger *logging.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	notifications, err := h.service.List(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id := c.Param("id")
	if id == "" {
		responder.RespondBadRequest("notification id is required")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id := c.Param("id")
	if id == "" {
		responder.RespondBadRequest("notification id is required")
		return
	}

	if err := h.service.DeleteOwned(c.Request.Context(), middleware.GetIdentity(c), id); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
