package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coucou-beaute/booking-api/internal/model"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

const professionalColumns = `
	id, email, name, password_hash, business_name, is_verified,
	address, city, latitude, longitude,
	open_days, hours_start, hours_end,
	created_at, updated_at
`

func (r *professionalRepository) Create(ctx context.Context, pro *model.Professional) error {
	query := `
		INSERT INTO professionals (
			id, email, name, password_hash, business_name, is_verified,
			address, city, latitude, longitude,
			open_days, hours_start, hours_end,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	pro.ID = uuid.New()
	pro.CreatedAt = time.Now()
	pro.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		pro.ID,
		pro.Email,
		pro.Name,
		pro.PasswordHash,
		pro.BusinessName,
		pro.IsVerified,
		pro.Address,
		pro.City,
		pro.Latitude,
		pro.Longitude,
		pro.OpenDays,
		pro.HoursStart,
		pro.HoursEnd,
		pro.CreatedAt,
		pro.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	var pro model.Professional
	err := r.db.GetContext(ctx, &pro, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("professional", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &pro, nil
}

func (r *professionalRepository) GetByEmail(ctx context.Context, email string) (*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE email = $1`

	var pro model.Professional
	err := r.db.GetContext(ctx, &pro, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("professional", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional by email: %w", err)
	}
	return &pro, nil
}

func (r *professionalRepository) Update(ctx context.Context, pro *model.Professional) error {
	query := `
		UPDATE professionals
		SET name = $1, business_name = $2, address = $3, city = $4,
			latitude = $5, longitude = $6,
			open_days = $7, hours_start = $8, hours_end = $9,
			updated_at = $10
		WHERE id = $11
	`
	pro.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		pro.Name,
		pro.BusinessName,
		pro.Address,
		pro.City,
		pro.Latitude,
		pro.Longitude,
		pro.OpenDays,
		pro.HoursStart,
		pro.HoursEnd,
		pro.UpdatedAt,
		pro.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE professionals SET is_verified = $1, updated_at = $2 WHERE id = $3`,
		verified, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.VerifiedOnly {
			query += " AND is_verified = TRUE"
		}
		if filters.City != "" {
			query += fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", argCount)
			args = append(args, filters.City)
			argCount++
		}
		if filters.Search != "" {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR business_name ILIKE $%d)", argCount, argCount)
			args = append(args, "%"+filters.Search+"%")
			argCount++
		}
	}

	query += " ORDER BY business_name, name"

	var pros []*model.Professional
	err := r.db.SelectContext(ctx, &pros, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return pros, nil
}
