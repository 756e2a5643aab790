package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/middleware"
)

// RegisterRoutes wires the API surface. Every mutating route sits behind
// at least an authenticated identity; destructive and administrative
// routes additionally require the admin role.
func RegisterRoutes(
	router *gin.Engine,
	shipments *ShipmentHandler,
	notifications *NotificationHandler,
	admin *AdminHandler,
) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ResolveIdentity())

	authed := v1.Group("")
	authed.Use(middleware.RequireIdentity())
	{
		authed.POST("/shipments", shipments.CreateShipment)
		authed.POST("/shipments/status", shipments.UpdateStatus)
		authed.GET("/shipments", shipments.ListShipments)
		authed.GET("/shipments/search", shipments.SearchShipments)
		authed.GET("/shipments/:shipmentId", shipments.GetShipment)
		authed.GET("/shipments/:shipmentId/history", shipments.GetTrackingHistory)
		authed.POST("/quotes", shipments.CreateQuote)

		authed.GET("/notifications", notifications.ListNotifications)
		authed.POST("/notifications/:id/read", notifications.MarkRead)
		authed.DELETE("/notifications/:id", notifications.DeleteNotification)
	}

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin())
	{
		adminGroup.GET("/users/deleted", admin.ListDeletedUsers)
		adminGroup.POST("/blocked-emails/:id/restore", admin.RestoreBlockedEmail)
	}
}
