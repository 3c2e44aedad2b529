package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/core/domain"
	"crystalos/pkg/apierrors"
)

// CreateNotification answers 202 with added=false while focus mode holds
// notifications back.
func (h *DashboardHandler) CreateNotification(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	n, added, err := dashboard.AddNotification(c.Request.Context(), domain.CreateNotificationInput{
		Title:   title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		respondError(c, err, "add_notification", apierrors.MsgFailMutation)
		return
	}
	if !added {
		c.JSON(http.StatusAccepted, dto.NotificationResponse{Added: false})
		return
	}

	item := mapper.ToNotificationItem(n)
	c.JSON(http.StatusCreated, dto.NotificationResponse{Added: true, Notification: &item})
}

func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "mark_notification_read", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) DeleteNotification(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.DeleteNotification(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete_notification", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) ClearNotifications(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.ClearAllNotifications(c.Request.Context()); err != nil {
		respondError(c, err, "clear_notifications", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}
