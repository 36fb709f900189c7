package notification

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/service/notification"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/httputil"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProfessionalRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread_count", h.UnreadCount)
		notifications.POST("/mark_read", h.MarkRead)
	}
}

func (h *Handler) List(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid limit", err))
			return
		}
		limit = parsed
	}

	notifications, err := h.service.List(c.Request.Context(), professionalID, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, notifications)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), professionalID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"unread_count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), professionalID, req.IDs); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"marked": len(req.IDs)})
}
