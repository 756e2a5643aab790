package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/application"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
)

// AdminHandler handles the administrative surface
type AdminHandler struct {
	service *application.NotificationApplicationService
	logger  *logging.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service *application.NotificationApplicationService, logger *logging.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// ListDeletedUsers handles GET /api/v1/admin/users/deleted
func (h *AdminHandler) ListDeletedUsers(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	users, err := h.service.ListDeletedUsers(c.Request.Context())
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// RestoreBlockedEmail handles POST /api/v1/admin/blocked-emails/:id/restore
func (h *AdminHandler) RestoreBlockedEmail(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id := c.Param("id")
	if id == "" {
		responder.RespondBadRequest("blocked email id is required")
		return
	}

	if err := h.service.RestoreBlockedEmail(c.Request.Context(), id); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
