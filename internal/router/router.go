package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	appointmenthandler "github.com/coucou-beaute/booking-api/internal/handler/appointment"
	authhandler "github.com/coucou-beaute/booking-api/internal/handler/auth"
	bookinghandler "github.com/coucou-beaute/booking-api/internal/handler/booking"
	healthhandler "github.com/coucou-beaute/booking-api/internal/handler/health"
	notificationhandler "github.com/coucou-beaute/booking-api/internal/handler/notification"
	professionalhandler "github.com/coucou-beaute/booking-api/internal/handler/professional"
	reviewhandler "github.com/coucou-beaute/booking-api/internal/handler/review"
	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/pkg/auth"
)

type Handlers struct {
	Auth         *authhandler.Handler
	Booking      *bookinghandler.Handler
	Appointment  *appointmenthandler.Handler
	Notification *notificationhandler.Handler
	Professional *professionalhandler.Handler
	Review       *reviewhandler.Handler
	Health       *healthhandler.Handler
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	MetricsPrefix    string
}

type Router struct {
	engine   *gin.Engine
	authMW   *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(authMW *middleware.AuthMiddleware, handlers Handlers, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()
	engine := gin.New()

	r := &Router{
		engine:   engine,
		authMW:   authMW,
		handlers: handlers,
		metrics:  initRouterMetrics(cfg.MetricsPrefix),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(cfg.CORSConfig))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	// Public surface
	r.handlers.Auth.RegisterPublicRoutes(api)
	r.handlers.Booking.RegisterPublicRoutes(api)
	r.handlers.Professional.RegisterPublicRoutes(api)
	r.handlers.Review.RegisterPublicRoutes(api)

	// Client surface
	client := api.Group("")
	client.Use(r.authMW.Authenticate(), r.authMW.RequireRole(auth.RoleClient))
	r.handlers.Booking.RegisterClientRoutes(client)
	r.handlers.Appointment.RegisterClientRoutes(client)
	r.handlers.Review.RegisterClientRoutes(client)

	// Professional surface
	pro := api.Group("")
	pro.Use(r.authMW.Authenticate(), r.authMW.RequireRole(auth.RoleProfessional))
	r.handlers.Appointment.RegisterProfessionalRoutes(pro)
	r.handlers.Notification.RegisterProfessionalRoutes(pro)
	r.handlers.Professional.RegisterProfessionalRoutes(pro)

	// Admin surface
	admin := api.Group("/admin")
	admin.Use(r.authMW.Authenticate(), r.authMW.RequireRole(auth.RoleAdmin))
	r.handlers.Professional.RegisterAdminRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "booking_api"
	}
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
