package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/coucou-beaute/booking-api/internal/email"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/internal/schedule"
	"github.com/coucou-beaute/booking-api/internal/service/notification"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

type Service interface {
	// DaySlots computes the slot descriptors for a professional's day.
	// Unknown or unverified professionals are rejected; closed days yield
	// an empty list.
	DaySlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.Slot, error)
	// BookSlot validates and persists a client's slot selection, re-running
	// the conflict check at write time under the per-professional-per-day
	// lock.
	BookSlot(ctx context.Context, clientID *uuid.UUID, req *model.BookSlotRequest) (*model.Appointment, error)
}

type service struct {
	appointments repository.AppointmentRepository
	pros         repository.ProfessionalRepository
	clients      repository.ClientRepository
	notifier     notification.Service
	emailSvc     email.Service
	defaults     schedule.Defaults
	loc          *time.Location
	slotCache    *gocache.Cache
}

func NewService(
	appointments repository.AppointmentRepository,
	pros repository.ProfessionalRepository,
	clients repository.ClientRepository,
	notifier notification.Service,
	emailSvc email.Service,
	defaults schedule.Defaults,
	loc *time.Location,
	slotCacheTTL time.Duration,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	if slotCacheTTL <= 0 {
		slotCacheTTL = 30 * time.Second
	}
	return &service{
		appointments: appointments,
		pros:         pros,
		clients:      clients,
		notifier:     notifier,
		emailSvc:     emailSvc,
		defaults:     defaults,
		loc:          loc,
		slotCache:    gocache.New(slotCacheTTL, 2*slotCacheTTL),
	}
}

func (s *service) DaySlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.Slot, error) {
	cacheKey := slotCacheKey(professionalID, date)
	if cached, ok := s.slotCache.Get(cacheKey); ok {
		return cached.([]model.Slot), nil
	}

	pro, err := s.verifiedProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	existing, err := s.appointments.ListOverlapping(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load day appointments: %w", err)
	}

	slots := schedule.DaySlots(scheduleConfigOf(pro), dayStart, existing, s.defaults, s.loc)
	if slots == nil {
		slots = []model.Slot{}
	}

	s.slotCache.SetDefault(cacheKey, slots)
	return slots, nil
}

func (s *service) BookSlot(ctx context.Context, clientID *uuid.UUID, req *model.BookSlotRequest) (*model.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.ErrInvalidTimeRange
	}

	pro, err := s.verifiedProfessional(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	serviceName := req.ServiceName
	if serviceName == "" {
		serviceName = "Service"
	}

	apt := &model.Appointment{
		ProfessionalID: req.ProfessionalID,
		ClientID:       clientID,
		ServiceName:    serviceName,
		Price:          req.Price,
		StartTime:      req.StartTime.In(s.loc),
		EndTime:        req.EndTime.In(s.loc),
	}

	slot := schedule.Interval{Start: apt.StartTime, End: apt.EndTime}
	err = s.appointments.BookPending(ctx, apt, func(existing []*model.Appointment) error {
		if schedule.Classify(slot, existing) != model.SlotAvailable {
			return apperrors.ErrSlotNoLongerAvailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.slotCache.Delete(slotCacheKey(req.ProfessionalID, apt.StartTime))

	bookedBy := "un client"
	if clientID != nil {
		if client, cerr := s.clients.Get(ctx, *clientID); cerr == nil {
			bookedBy = client.Name
		}
	}

	title := "Nouvelle demande de réservation"
	body := fmt.Sprintf("%s a demandé %s le %s", bookedBy, apt.ServiceName, apt.StartTime.Format("02/01/2006 à 15:04"))
	if _, nerr := s.notifier.Notify(ctx, pro.ID, title, body); nerr != nil {
		// The booking is already committed at this point; surfacing the
		// failure would force the client to retry an occupied slot.
		log.Error().Err(nerr).
			Str("appointment_id", apt.ID.String()).
			Msg("failed to create booking notification")
	}

	if pro.Email != "" {
		go func(to, name, svc, when string) {
			if err := s.emailSvc.SendBookingRequest(context.Background(), to, name, svc, when); err != nil {
				log.Warn().Err(err).Str("recipient", to).Msg("failed to send booking request email")
			}
		}(pro.Email, pro.Name, apt.ServiceName, apt.StartTime.Format("02/01/2006 15:04"))
	}

	return apt, nil
}

func (s *service) verifiedProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	if id == uuid.Nil {
		return nil, apperrors.ErrInvalidProfessional
	}
	pro, err := s.pros.Get(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInvalidProfessional
	}
	if !pro.IsVerified {
		return nil, apperrors.ErrInvalidProfessional
	}
	return pro, nil
}

// scheduleConfigOf distinguishes an absent configuration (fall back in full)
// from a saved one; a professional who explicitly cleared their open days is
// closed everywhere.
func scheduleConfigOf(pro *model.Professional) *model.ScheduleConfig {
	if len(pro.OpenDays) == 0 && pro.HoursStart == "" && pro.HoursEnd == "" {
		return nil
	}
	cfg := pro.ScheduleConfig()
	return &cfg
}

func slotCacheKey(professionalID uuid.UUID, date time.Time) string {
	return professionalID.String() + ":" + date.Format("2006-01-02")
}
