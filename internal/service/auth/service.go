package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/pkg/auth"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/security"
)

type Service interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	RegisterClient(ctx context.Context, req *model.RegisterClientRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenPair, error)
}

type service struct {
	clients repository.ClientRepository
	pros    repository.ProfessionalRepository
	hasher  security.PasswordHasher
	tokens  auth.JWTService
}

func NewService(
	clients repository.ClientRepository,
	pros repository.ProfessionalRepository,
	hasher security.PasswordHasher,
	tokens auth.JWTService,
) Service {
	return &service{
		clients: clients,
		pros:    pros,
		hasher:  hasher,
		tokens:  tokens,
	}
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	switch auth.Role(req.Role) {
	case auth.RoleProfessional:
		pro, err := s.pros.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		if err := s.hasher.Compare(pro.PasswordHash, req.Password); err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		pair, err := s.issue(pro.ID, pro.Email, auth.RoleProfessional)
		if err != nil {
			return nil, err
		}
		return &model.AuthResponse{TokenPair: *pair, Professional: pro}, nil

	case auth.RoleClient:
		client, err := s.clients.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		if err := s.hasher.Compare(client.PasswordHash, req.Password); err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		pair, err := s.issue(client.ID, client.Email, auth.RoleClient)
		if err != nil {
			return nil, err
		}
		return &model.AuthResponse{TokenPair: *pair, Client: client}, nil

	default:
		return nil, apperrors.NewBadRequest("unknown role", nil)
	}
}

func (s *service) RegisterClient(ctx context.Context, req *model.RegisterClientRequest) (*model.AuthResponse, error) {
	if existing, err := s.clients.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("an account with this email already exists", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid password", err)
	}

	client := &model.Client{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		City:         req.City,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	pair, err := s.issue(client.ID, client.Email, auth.RoleClient)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{TokenPair: *pair, Client: client}, nil
}

func (s *service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenPair, error) {
	userID, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	switch auth.Role(req.Role) {
	case auth.RoleProfessional:
		pro, err := s.pros.Get(ctx, userID)
		if err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		return s.issue(pro.ID, pro.Email, auth.RoleProfessional)
	case auth.RoleClient:
		client, err := s.clients.Get(ctx, userID)
		if err != nil {
			return nil, apperrors.Unauthorized(nil)
		}
		return s.issue(client.ID, client.Email, auth.RoleClient)
	default:
		return nil, apperrors.NewBadRequest("unknown role", nil)
	}
}

func (s *service) issue(userID uuid.UUID, email string, role auth.Role) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(userID, userID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
