package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogya/reminder-api/internal/handler"
	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/service/reminder"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("/settings", h.GetSettings)
		notifications.PUT("/settings", h.UpdateSettings)
		notifications.POST("/test", h.TestNotification)
	}
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetNotificationSettings(c.Request.Context(), handler.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	settings, err := h.service.UpdateNotificationSettings(c.Request.Context(), handler.UserID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}

// TestNotification echoes the caller's effective settings. Actual dispatch
// happens downstream of the outbox and is not part of this service.
func (h *Handler) TestNotification(c *gin.Context) {
	settings, err := h.service.GetNotificationSettings(c.Request.Context(), handler.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "test notification queued",
		"settings": gin.H{
			"notifications_enabled": settings.EnableNotifications,
			"sound_enabled":         settings.SoundEnabled,
			"vibration_enabled":     settings.VibrationEnabled,
		},
	}))
}
