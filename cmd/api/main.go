package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/coucou-beaute/booking-api/internal/config"
	"github.com/coucou-beaute/booking-api/internal/email"
	appointmenthandler "github.com/coucou-beaute/booking-api/internal/handler/appointment"
	authhandler "github.com/coucou-beaute/booking-api/internal/handler/auth"
	bookinghandler "github.com/coucou-beaute/booking-api/internal/handler/booking"
	healthhandler "github.com/coucou-beaute/booking-api/internal/handler/health"
	notificationhandler "github.com/coucou-beaute/booking-api/internal/handler/notification"
	professionalhandler "github.com/coucou-beaute/booking-api/internal/handler/professional"
	reviewhandler "github.com/coucou-beaute/booking-api/internal/handler/review"
	"github.com/coucou-beaute/booking-api/internal/middleware"
	"github.com/coucou-beaute/booking-api/internal/repository/postgres"
	"github.com/coucou-beaute/booking-api/internal/router"
	"github.com/coucou-beaute/booking-api/internal/schedule"
	appointmentservice "github.com/coucou-beaute/booking-api/internal/service/appointment"
	authservice "github.com/coucou-beaute/booking-api/internal/service/auth"
	bookingservice "github.com/coucou-beaute/booking-api/internal/service/booking"
	geocodeservice "github.com/coucou-beaute/booking-api/internal/service/geocode"
	notificationservice "github.com/coucou-beaute/booking-api/internal/service/notification"
	professionalservice "github.com/coucou-beaute/booking-api/internal/service/professional"
	reviewservice "github.com/coucou-beaute/booking-api/internal/service/review"
	"github.com/coucou-beaute/booking-api/pkg/auth"
	"github.com/coucou-beaute/booking-api/pkg/logger"
	"github.com/coucou-beaute/booking-api/pkg/messaging"
	redisbroker "github.com/coucou-beaute/booking-api/pkg/messaging/redis"
	"github.com/coucou-beaute/booking-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Output: os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Schedule.Timezone).Msg("invalid timezone")
	}

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	// Repositories
	professionalRepo := postgres.NewProfessionalRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)

	// Shared collaborators
	hasher := security.NewBcryptHasher(0)
	tokens := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	emailSvc := email.NewSMTPService(cfg.SMTP)
	geocoder := geocodeservice.NewNominatim(geocodeservice.Config{
		BaseURL:     cfg.Geocode.BaseURL,
		UserAgent:   cfg.Geocode.UserAgent,
		Timeout:     cfg.Geocode.Timeout,
		CacheTTL:    cfg.Geocode.CacheTTL,
		CountryHint: cfg.Geocode.CountryHint,
	})

	defaults := schedule.Defaults{
		OpenDays:   cfg.Schedule.OpenDays,
		DayStart:   cfg.Schedule.DayStart,
		DayEnd:     cfg.Schedule.DayEnd,
		SlotLength: time.Duration(cfg.Schedule.SlotLengthMin) * time.Minute,
	}

	// Services
	notificationSvc := notificationservice.NewService(notificationRepo, broker)
	bookingSvc := bookingservice.NewService(
		appointmentRepo, professionalRepo, clientRepo,
		notificationSvc, emailSvc, defaults, loc,
		time.Duration(cfg.Schedule.SlotCacheTTLSec)*time.Second,
	)
	appointmentSvc := appointmentservice.NewService(
		appointmentRepo, professionalRepo, clientRepo,
		notificationSvc, emailSvc, loc,
	)
	professionalSvc := professionalservice.NewService(
		professionalRepo, applicationRepo, hasher, geocoder, emailSvc,
	)
	reviewSvc := reviewservice.NewService(reviewRepo, professionalRepo)
	authSvc := authservice.NewService(clientRepo, professionalRepo, hasher, tokens)

	// HTTP layer
	authMW := middleware.NewAuthMiddleware(tokens)
	handlers := router.Handlers{
		Auth:         authhandler.NewHandler(authSvc),
		Booking:      bookinghandler.NewHandler(bookingSvc),
		Appointment:  appointmenthandler.NewHandler(appointmentSvc),
		Notification: notificationhandler.NewHandler(notificationSvc),
		Professional: professionalhandler.NewHandler(professionalSvc),
		Review:       reviewhandler.NewHandler(reviewSvc),
		Health:       healthhandler.NewHandler(db),
	}

	r := router.New(authMW, handlers, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       middleware.DefaultCORSConfig(),
		MetricsPrefix:    "booking_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
