package handlers

import (
	"net/http"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes (mounted at /notifications)
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PUT("/read", h.MarkAsRead)
	g.PUT("/read-all", h.MarkAllAsRead)
}

// GetNotifications returns every notification, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.notificationRepository.ListNotifications(c.Request().Context())
	if err != nil {
		return httpError(err, "Not found", "Failed to load notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context())
	if err != nil {
		return httpError(err, "Not found", "Failed to load notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	id, err := parseObjectID(req.ID)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), id); err != nil {
		return httpError(err, "Not found", "Failed to mark read")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.notificationRepository.MarkAllAsRead(c.Request().Context())
	if err != nil {
		return httpError(err, "Not found", "Failed to mark read")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated": updated})
}
