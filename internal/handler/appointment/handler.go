package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/service/appointment"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/httputil"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProfessionalRoutes(rg *gin.RouterGroup) {
	rg.GET("/agenda", h.Agenda)
	rg.GET("/agenda/day", h.AgendaDay)
	rg.GET("/kpis", h.KPIs)
	rg.GET("/analytics/overview", h.AnalyticsOverview)

	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.PATCH("/:id", h.Update)
		appointments.POST("/:id/accept", h.transition(model.AppointmentStatusConfirmed))
		appointments.POST("/:id/reject", h.transition(model.AppointmentStatusCancelled))
		appointments.POST("/:id/complete", h.transition(model.AppointmentStatusCompleted))
	}
}

func (h *Handler) RegisterClientRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments/:id/cancel", h.Cancel)
}

func (h *Handler) Agenda(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointments, err := h.service.Agenda(c.Request.Context(), professionalID, from, to)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) AgendaDay(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid date, expected YYYY-MM-DD", err))
		return
	}

	appointments, err := h.service.AgendaDay(c.Request.Context(), professionalID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Create(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), professionalID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) Update(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.Update(c.Request.Context(), professionalID, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Cancel(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment ID", err))
		return
	}

	apt, err := h.service.Transition(c.Request.Context(), id, model.AppointmentStatusCancelled, model.ActorClient, clientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) KPIs(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	kpis, err := h.service.KPIs(c.Request.Context(), professionalID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, kpis)
}

func (h *Handler) AnalyticsOverview(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	overview, err := h.service.AnalyticsOverview(c.Request.Context(), professionalID, from, to)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, overview)
}

func (h *Handler) transition(to model.AppointmentStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		professionalID, ok := middleware.UserID(c)
		if !ok {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment ID", err))
			return
		}

		apt, err := h.service.Transition(c.Request.Context(), id, to, model.ActorProfessional, professionalID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, apt)
	}
}

// parseRange reads the from/to query parameters, defaulting to the current
// week when absent.
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 7)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequest("invalid from, expected YYYY-MM-DD", err)
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequest("invalid to, expected YYYY-MM-DD", err)
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}
