package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/application"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
)

// ShipmentHandler handles HTTP requests for shipments
type ShipmentHandler struct {
	service *application.ShipmentApplicationService
	logger  *logging.Logger
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service *application.ShipmentApplicationService, logger *logging.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
		logger:  logger,
	}
}

// CreateShipment handles POST /api/v1/shipments
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateShipmentCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.Create(c.Request.Context(), middleware.GetIdentity(c), cmd)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// UpdateStatus handles POST /api/v1/shipments/status
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateStatusCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), cmd); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetShipment handles GET /api/v1/shipments/:shipmentId
func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.Get(c.Request.Context(), middleware.GetIdentity(c), c.Param("shipmentId"))
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListShipments handles GET /api/v1/shipments
func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil {
		responder.RespondBadRequest("limit must be an integer")
		return
	}

	results, err := h.service.List(c.Request.Context(), middleware.GetIdentity(c), limit)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SearchShipments handles GET /api/v1/shipments/search
func (h *ShipmentHandler) SearchShipments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	items, err := h.service.Search(c.Request.Context(), middleware.GetIdentity(c), c.Query("q"))
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTrackingHistory handles GET /api/v1/shipments/:shipmentId/history
func (h *ShipmentHandler) GetTrackingHistory(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	events, err := h.service.History(c.Request.Context(), c.Param("shipmentId"))
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateQuote handles POST /api/v1/quotes
func (h *ShipmentHandler) CreateQuote(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.QuoteCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.service.Quote(c.Request.Context(), cmd)})
}
