package professional

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coucou-beaute/booking-api/internal/email"
	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/internal/service/geocode"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/security"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
	List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error)
	// UpdateProfile replaces the profile fields present in the request. The
	// schedule configuration is replaced wholesale, never merged. An address
	// change triggers geocoding; geocoding failure is non-fatal.
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Professional, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	Apply(ctx context.Context, app *model.ProfessionalApplication) error
	ListApplications(ctx context.Context, status model.ApplicationStatus) ([]*model.ProfessionalApplication, error)
	// ApproveApplication creates the professional account with a generated
	// password and emails the credentials to the applicant.
	ApproveApplication(ctx context.Context, applicationID, reviewerID uuid.UUID) (*model.Professional, error)
	RejectApplication(ctx context.Context, applicationID, reviewerID uuid.UUID) error
}

type service struct {
	repo     repository.ProfessionalRepository
	apps     repository.ApplicationRepository
	hasher   security.PasswordHasher
	geocoder geocode.Geocoder
	emailSvc email.Service
}

func NewService(
	repo repository.ProfessionalRepository,
	apps repository.ApplicationRepository,
	hasher security.PasswordHasher,
	geocoder geocode.Geocoder,
	emailSvc email.Service,
) Service {
	return &service{
		repo:     repo,
		apps:     apps,
		hasher:   hasher,
		geocoder: geocoder,
		emailSvc: emailSvc,
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	return s.repo.List(ctx, filters)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Professional, error) {
	pro, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pro.Name = *req.Name
	}
	if req.BusinessName != nil {
		pro.BusinessName = *req.BusinessName
	}
	if req.City != nil {
		pro.City = *req.City
	}

	addressChanged := false
	if req.Address != nil && *req.Address != pro.Address {
		pro.Address = *req.Address
		addressChanged = true
	}

	// Full replace: a request carrying open days overwrites the stored set,
	// including with an explicitly empty one.
	if req.OpenDays != nil {
		pro.OpenDays = req.OpenDays
	}
	if req.HoursStart != nil {
		pro.HoursStart = *req.HoursStart
	}
	if req.HoursEnd != nil {
		pro.HoursEnd = *req.HoursEnd
	}

	if addressChanged && pro.Address != "" && s.geocoder != nil {
		lat, lng, gerr := s.geocoder.Geocode(ctx, pro.Address)
		if gerr != nil {
			log.Warn().Err(gerr).Str("professional_id", id.String()).Msg("geocoding failed, keeping stale coordinates")
		} else {
			pro.Latitude = &lat
			pro.Longitude = &lng
		}
	}

	if err := s.repo.Update(ctx, pro); err != nil {
		return nil, err
	}
	return pro, nil
}

func (s *service) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return s.repo.SetVerified(ctx, id, verified)
}

func (s *service) Apply(ctx context.Context, app *model.ProfessionalApplication) error {
	if existing, err := s.repo.GetByEmail(ctx, app.Email); err == nil && existing != nil {
		return apperrors.NewConflict("an account with this email already exists", nil)
	}
	app.Status = model.ApplicationStatusPending
	return s.apps.Create(ctx, app)
}

func (s *service) ListApplications(ctx context.Context, status model.ApplicationStatus) ([]*model.ProfessionalApplication, error) {
	return s.apps.List(ctx, status)
}

func (s *service) ApproveApplication(ctx context.Context, applicationID, reviewerID uuid.UUID) (*model.Professional, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationStatusPending {
		return nil, apperrors.NewConflict("application already reviewed", nil)
	}

	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pro := &model.Professional{
		Email:        app.Email,
		Name:         app.Name,
		BusinessName: app.BusinessName,
		Address:      app.Address,
		City:         app.City,
		PasswordHash: hash,
		IsVerified:   true,
	}
	if err := s.repo.Create(ctx, pro); err != nil {
		return nil, err
	}

	now := time.Now()
	app.Status = model.ApplicationStatusApproved
	app.ReviewedAt = &now
	app.ReviewedBy = &reviewerID
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	go func(to, pwd string) {
		content := fmt.Sprintf("Votre candidature a été acceptée. Votre mot de passe temporaire : %s", pwd)
		if err := s.emailSvc.SendCustom(context.Background(), to, "Bienvenue sur Coucou Beauté", content); err != nil {
			log.Warn().Err(err).Str("recipient", to).Msg("failed to send approval email")
		}
	}(app.Email, password)

	return pro, nil
}

func (s *service) RejectApplication(ctx context.Context, applicationID, reviewerID uuid.UUID) error {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Status != model.ApplicationStatusPending {
		return apperrors.NewConflict("application already reviewed", nil)
	}

	now := time.Now()
	app.Status = model.ApplicationStatusRejected
	app.ReviewedAt = &now
	app.ReviewedBy = &reviewerID
	if err := s.apps.Update(ctx, app); err != nil {
		return err
	}

	go func(to string) {
		content := "Votre candidature n'a pas été retenue."
		if err := s.emailSvc.SendCustom(context.Background(), to, "Votre candidature Coucou Beauté", content); err != nil {
			log.Warn().Err(err).Str("recipient", to).Msg("failed to send rejection email")
		}
	}(app.Email)

	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
