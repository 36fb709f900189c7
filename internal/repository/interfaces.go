package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	ProfessionalRepository interface {
		Create(ctx context.Context, pro *model.Professional) error
		Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		GetByEmail(ctx context.Context, email string) (*model.Professional, error)
		Update(ctx context.Context, pro *model.Professional) error
		SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
		List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		GetByEmail(ctx context.Context, email string) (*model.Client, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// ListOverlapping returns the professional's appointments whose
		// [start, end) interval intersects [from, to).
		ListOverlapping(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		// BookPending inserts a pending appointment under the
		// per-professional-per-day advisory lock. slotCheck receives the
		// professional's same-day appointments re-read inside the locked
		// transaction; a non-nil return aborts the insert.
		BookPending(ctx context.Context, apt *model.Appointment, slotCheck func(existing []*model.Appointment) error) error
		StatusCounts(ctx context.Context, professionalID uuid.UUID) (map[model.AppointmentStatus]int, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		List(ctx context.Context, professionalID uuid.UUID, limit int) ([]*model.Notification, error)
		UnreadCount(ctx context.Context, professionalID uuid.UUID) (int, error)
		MarkRead(ctx context.Context, professionalID uuid.UUID, ids []uuid.UUID) error
	}

	ReviewRepository interface {
		Create(ctx context.Context, review *model.Review) error
		Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
		Update(ctx context.Context, review *model.Review) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListForProfessional(ctx context.Context, professionalID uuid.UUID, publicOnly bool) ([]*model.Review, error)
		Exists(ctx context.Context, clientID, professionalID uuid.UUID) (bool, error)
		Stats(ctx context.Context, professionalID uuid.UUID) (*model.ReviewStats, error)
	}

	ApplicationRepository interface {
		Create(ctx context.Context, app *model.ProfessionalApplication) error
		Get(ctx context.Context, id uuid.UUID) (*model.ProfessionalApplication, error)
		List(ctx context.Context, status model.ApplicationStatus) ([]*model.ProfessionalApplication, error)
		Update(ctx context.Context, app *model.ProfessionalApplication) error
	}
)
