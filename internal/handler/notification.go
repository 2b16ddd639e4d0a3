package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"live_portal/internal/middleware"
	"live_portal/internal/service"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	log                 logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log,
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) Manage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}
	action := c.Param("action")

	if err := h.notificationService.Manage(c.Request.Context(), user.ID, notificationID, action); err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
