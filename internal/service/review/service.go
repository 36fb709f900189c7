package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

type Service interface {
	// Create enforces one review per (client, professional) pair.
	Create(ctx context.Context, clientID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error)
	Update(ctx context.Context, clientID, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, clientID, id uuid.UUID) error
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*model.Review, *model.ReviewStats, error)
}

type service struct {
	repo repository.ReviewRepository
	pros repository.ProfessionalRepository
}

func NewService(repo repository.ReviewRepository, pros repository.ProfessionalRepository) Service {
	return &service{repo: repo, pros: pros}
}

func (s *service) Create(ctx context.Context, clientID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	if _, err := s.pros.Get(ctx, req.ProfessionalID); err != nil {
		return nil, apperrors.ErrInvalidProfessional
	}

	exists, err := s.repo.Exists(ctx, clientID, req.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflict("you have already reviewed this professional", nil)
	}

	review := &model.Review{
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		IsPublic:       true,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) Update(ctx context.Context, clientID, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error) {
	review, err := s.ownedBy(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	if _, err := s.ownedBy(ctx, clientID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*model.Review, *model.ReviewStats, error) {
	reviews, err := s.repo.ListForProfessional(ctx, professionalID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	stats, err := s.repo.Stats(ctx, professionalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute review stats: %w", err)
	}
	return reviews, stats, nil
}

func (s *service) ownedBy(ctx context.Context, clientID, id uuid.UUID) (*model.Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.ClientID != clientID {
		return nil, apperrors.NewNotFound("review", nil)
	}
	return review, nil
}
