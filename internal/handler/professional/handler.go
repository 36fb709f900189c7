package professional

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/service/professional"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/httputil"
)

type Handler struct {
	service professional.Service
}

func NewHandler(service professional.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the verified-professional directory and the
// application form.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/professionals", h.List)
	rg.GET("/professionals/:id", h.Get)
	rg.POST("/applications", h.Apply)
}

func (h *Handler) RegisterProfessionalRoutes(rg *gin.RouterGroup) {
	rg.PUT("/profile", h.UpdateProfile)
	rg.GET("/profile", h.Profile)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	{
		applications.GET("", h.ListApplications)
		applications.POST("/:id/approve", h.ApproveApplication)
		applications.POST("/:id/reject", h.RejectApplication)
	}
	rg.POST("/professionals/:id/verify", h.SetVerified)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.ProfessionalFilters{
		City:         c.Query("city"),
		Search:       c.Query("q"),
		VerifiedOnly: true,
	}

	pros, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, pros)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid professional ID", err))
		return
	}

	pro, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !pro.IsVerified {
		httputil.RespondWithError(c, apperrors.NewNotFound("professional", nil))
		return
	}
	httputil.RespondWithSuccess(c, pro)
}

func (h *Handler) Profile(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	pro, err := h.service.Get(c.Request.Context(), professionalID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, pro)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	professionalID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	pro, err := h.service.UpdateProfile(c.Request.Context(), professionalID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, pro)
}

func (h *Handler) Apply(c *gin.Context) {
	var app model.ProfessionalApplication
	if err := c.ShouldBindJSON(&app); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if err := h.service.Apply(c.Request.Context(), &app); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, app)
}

func (h *Handler) ListApplications(c *gin.Context) {
	status := model.ApplicationStatus(c.DefaultQuery("status", string(model.ApplicationStatusPending)))

	apps, err := h.service.ListApplications(c.Request.Context(), status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apps)
}

func (h *Handler) ApproveApplication(c *gin.Context) {
	reviewerID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid application ID", err))
		return
	}

	pro, err := h.service.ApproveApplication(c.Request.Context(), id, reviewerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, pro)
}

func (h *Handler) RejectApplication(c *gin.Context) {
	reviewerID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid application ID", err))
		return
	}

	if err := h.service.RejectApplication(c.Request.Context(), id, reviewerID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": "rejected"})
}

func (h *Handler) SetVerified(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid professional ID", err))
		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if err := h.service.SetVerified(c.Request.Context(), id, req.Verified); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"verified": req.Verified})
}
