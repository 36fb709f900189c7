package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coucou-beaute/booking-api/internal/email"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/internal/schedule"
	"github.com/coucou-beaute/booking-api/internal/service/notification"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Create(ctx context.Context, professionalID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Update(ctx context.Context, professionalID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	// Transition applies a status change on behalf of the acting party,
	// running the side effects its plan requires.
	Transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, actor model.Actor, actorID uuid.UUID) (*model.Appointment, error)
	Agenda(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
	AgendaDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]*model.Appointment, error)
	KPIs(ctx context.Context, professionalID uuid.UUID) (*model.KPIs, error)
	AnalyticsOverview(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*model.AnalyticsOverview, error)
}

type service struct {
	repo     repository.AppointmentRepository
	pros     repository.ProfessionalRepository
	clients  repository.ClientRepository
	notifier notification.Service
	emailSvc email.Service
	loc      *time.Location
}

func NewService(
	repo repository.AppointmentRepository,
	pros repository.ProfessionalRepository,
	clients repository.ClientRepository,
	notifier notification.Service,
	emailSvc email.Service,
	loc *time.Location,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:     repo,
		pros:     pros,
		clients:  clients,
		notifier: notifier,
		emailSvc: emailSvc,
		loc:      loc,
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Create(ctx context.Context, professionalID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.ErrInvalidTimeRange
	}

	status := req.Status
	if status == "" {
		status = model.AppointmentStatusConfirmed
	}

	apt := &model.Appointment{
		ProfessionalID: professionalID,
		ClientID:       req.ClientID,
		ServiceName:    req.ServiceName,
		Price:          req.Price,
		StartTime:      req.StartTime.In(s.loc),
		EndTime:        req.EndTime.In(s.loc),
		Status:         status,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *service) Update(ctx context.Context, professionalID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.ownedByProfessional(ctx, professionalID, id)
	if err != nil {
		return nil, err
	}

	if req.ServiceName != nil {
		apt.ServiceName = *req.ServiceName
	}
	if req.Price != nil {
		apt.Price = *req.Price
	}
	if req.StartTime != nil {
		apt.StartTime = req.StartTime.In(s.loc)
	}
	if req.EndTime != nil {
		apt.EndTime = req.EndTime.In(s.loc)
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if !apt.EndTime.After(apt.StartTime) {
		return nil, apperrors.ErrInvalidTimeRange
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *service) Transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, actor model.Actor, actorID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor {
	case model.ActorProfessional:
		if apt.ProfessionalID != actorID {
			return nil, apperrors.NewNotFound("appointment", nil)
		}
	case model.ActorClient:
		if apt.ClientID == nil || *apt.ClientID != actorID {
			return nil, apperrors.NewNotFound("appointment", nil)
		}
	}

	plan, err := PlanTransition(apt.Status, to, actor)
	if err != nil {
		return nil, err
	}

	// The notification is written before the status so a transition never
	// commits without its audit entry.
	if plan.NotifyProfessional {
		title, body := notificationText(apt, to, actor)
		if _, nerr := s.notifier.Notify(ctx, apt.ProfessionalID, title, body); nerr != nil {
			return nil, fmt.Errorf("failed to record transition notification: %w", nerr)
		}
	}

	apt.Status = to
	if plan.RecordCancelledBy {
		a := actor
		apt.CancelledBy = &a
	}
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.dispatchEmails(apt, plan)
	return apt, nil
}

func (s *service) Agenda(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	return s.repo.List(ctx, &model.AppointmentFilters{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
}

func (s *service) AgendaDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	return s.repo.ListOverlapping(ctx, professionalID, dayStart, dayStart.Add(24*time.Hour))
}

func (s *service) KPIs(ctx context.Context, professionalID uuid.UUID) (*model.KPIs, error) {
	counts, err := s.repo.StatusCounts(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	kpis := &model.KPIs{
		Pending:   counts[model.AppointmentStatusPending],
		Confirmed: counts[model.AppointmentStatusConfirmed],
		Cancelled: counts[model.AppointmentStatusCancelled],
		Completed: counts[model.AppointmentStatusCompleted],
	}
	kpis.Total = kpis.Pending + kpis.Confirmed + kpis.Cancelled + kpis.Completed
	return kpis, nil
}

func (s *service) AnalyticsOverview(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*model.AnalyticsOverview, error) {
	appointments, err := s.repo.List(ctx, &model.AppointmentFilters{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	overview := &model.AnalyticsOverview{
		From:                from.Format("2006-01-02"),
		To:                  to.Format("2006-01-02"),
		TotalAppointments:   len(appointments),
		StatusBreakdown:     map[model.AppointmentStatus]int{},
		WeekdayCounts:       map[string]int{},
		ServiceDistribution: map[string]int{},
	}

	revenueByDay := map[string]float64{}
	var days []string
	for _, apt := range appointments {
		overview.StatusBreakdown[apt.Status]++
		overview.WeekdayCounts[schedule.WeekdayCode(apt.StartTime.In(s.loc).Weekday())]++
		overview.ServiceDistribution[apt.ServiceName]++

		if apt.Status == model.AppointmentStatusConfirmed || apt.Status == model.AppointmentStatusCompleted {
			day := apt.StartTime.In(s.loc).Format("2006-01-02")
			if _, seen := revenueByDay[day]; !seen {
				days = append(days, day)
			}
			revenueByDay[day] += apt.Price
			overview.TotalRevenue += apt.Price
		}
	}

	// List returns appointments ordered by start time, so days is already
	// chronological.
	for _, day := range days {
		overview.DailyRevenue = append(overview.DailyRevenue, model.DailyRevenue{
			Date:    day,
			Revenue: revenueByDay[day],
		})
	}
	return overview, nil
}

func (s *service) ownedByProfessional(ctx context.Context, professionalID, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.ProfessionalID != professionalID {
		return nil, apperrors.NewNotFound("appointment", nil)
	}
	return apt, nil
}

func (s *service) dispatchEmails(apt *model.Appointment, plan TransitionPlan) {
	when := apt.StartTime.Format("02/01/2006 15:04")

	if plan.EmailClient && apt.ClientID != nil {
		clientID := *apt.ClientID
		go func() {
			ctx := context.Background()
			client, err := s.clients.Get(ctx, clientID)
			if err != nil || client.Email == "" {
				return
			}
			if err := s.emailSvc.SendStatusUpdate(ctx, client.Email, client.Name, apt.ServiceName, when, string(apt.Status)); err != nil {
				log.Warn().Err(err).Str("recipient", client.Email).Msg("failed to send status update email")
			}
		}()
	}

	if plan.EmailProfessional {
		proID := apt.ProfessionalID
		go func() {
			ctx := context.Background()
			pro, err := s.pros.Get(ctx, proID)
			if err != nil || pro.Email == "" {
				return
			}
			if err := s.emailSvc.SendStatusUpdate(ctx, pro.Email, pro.Name, apt.ServiceName, when, string(apt.Status)); err != nil {
				log.Warn().Err(err).Str("recipient", pro.Email).Msg("failed to send status update email")
			}
		}()
	}
}

func notificationText(apt *model.Appointment, to model.AppointmentStatus, actor model.Actor) (string, string) {
	when := apt.StartTime.Format("02/01/2006 à 15:04")
	switch to {
	case model.AppointmentStatusConfirmed:
		return "Rendez-vous confirmé",
			fmt.Sprintf("%s le %s est confirmé", apt.ServiceName, when)
	case model.AppointmentStatusCancelled:
		who := "vous"
		if actor == model.ActorClient {
			who = "le client"
		}
		return "Rendez-vous annulé",
			fmt.Sprintf("%s le %s a été annulé par %s", apt.ServiceName, when, who)
	case model.AppointmentStatusCompleted:
		return "Rendez-vous terminé",
			fmt.Sprintf("%s le %s est marqué comme terminé", apt.ServiceName, when)
	default:
		return "Rendez-vous mis à jour", fmt.Sprintf("%s le %s", apt.ServiceName, when)
	}
}
