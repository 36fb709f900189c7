package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/pkg/messaging"
)

const channelNotifications = "notifications"

type Service interface {
	// Notify persists a notification for the professional. Persistence
	// failure is returned to the caller; the in-app broker publish is
	// best-effort.
	Notify(ctx context.Context, professionalID uuid.UUID, title, body string) (*model.Notification, error)
	List(ctx context.Context, professionalID uuid.UUID, limit int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, professionalID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, professionalID uuid.UUID, ids []uuid.UUID) error
}

type service struct {
	repo   repository.NotificationRepository
	broker messaging.Broker
}

func NewService(repo repository.NotificationRepository, broker messaging.Broker) Service {
	return &service{
		repo:   repo,
		broker: broker,
	}
}

func (s *service) Notify(ctx context.Context, professionalID uuid.UUID, title, body string) (*model.Notification, error) {
	if professionalID == uuid.Nil {
		return nil, fmt.Errorf("professional ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	n := &model.Notification{
		ProfessionalID: professionalID,
		Title:          title,
		Body:           body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.broker != nil {
		event := &model.NotificationEvent{
			ID:             n.ID,
			ProfessionalID: n.ProfessionalID,
			Title:          n.Title,
			Body:           n.Body,
			CreatedAt:      n.CreatedAt,
		}
		if err := s.broker.Publish(ctx, channelNotifications, event); err != nil {
			log.Warn().Err(err).
				Str("notification_id", n.ID.String()).
				Msg("failed to publish notification event")
		}
	}

	return n, nil
}

func (s *service) List(ctx context.Context, professionalID uuid.UUID, limit int) ([]*model.Notification, error) {
	notifications, err := s.repo.List(ctx, professionalID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *service) UnreadCount(ctx context.Context, professionalID uuid.UUID) (int, error) {
	count, err := s.repo.UnreadCount(ctx, professionalID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, professionalID uuid.UUID, ids []uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, professionalID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
