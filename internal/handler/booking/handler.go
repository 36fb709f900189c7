package booking

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/service/booking"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/httputil"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the slot browser.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/slots", h.DaySlots)
}

// RegisterClientRoutes exposes the booking writer to authenticated clients.
func (h *Handler) RegisterClientRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.BookSlot)
}

func (h *Handler) DaySlots(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Query("professional_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid professional_id", err))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid date, expected YYYY-MM-DD", err))
		return
	}

	slots, err := h.service.DaySlots(c.Request.Context(), professionalID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

func (h *Handler) BookSlot(c *gin.Context) {
	var req model.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	var clientID *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		clientID = &id
	}

	apt, err := h.service.BookSlot(c.Request.Context(), clientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}
