package schedule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arogya/reminder-api/internal/handler"
	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/service/schedule"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/schedule/today", h.TodaySchedule)
	r.GET("/stats", h.Stats)
	r.GET("/upcoming", h.Upcoming)
}

func (h *Handler) TodaySchedule(c *gin.Context) {
	result, err := h.service.TodaySchedule(c.Request.Context(), handler.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), handler.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Upcoming(c *gin.Context) {
	hoursAhead := 24
	if raw := c.Query("hours_ahead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hours_ahead"))
			return
		}
		hoursAhead = parsed
	}

	reminders, err := h.service.Upcoming(c.Request.Context(), handler.UserID(c), hoursAhead)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	responses := make([]*model.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		responses = append(responses, r.ToResponse())
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(responses))
}
