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

const applicationColumns = `
	id, email, name, business_name, address, city, status,
	reviewed_at, reviewed_by, created_at, updated_at
`

func (r *applicationRepository) Create(ctx context.Context, app *model.ProfessionalApplication) error {
	query := `
		INSERT INTO professional_applications (
			id, email, name, business_name, address, city, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	app.ID = uuid.New()
	app.Status = model.ApplicationStatusPending
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.Email,
		app.Name,
		app.BusinessName,
		app.Address,
		app.City,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.ProfessionalApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM professional_applications WHERE id = $1`

	var app model.ProfessionalApplication
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("application", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, status model.ApplicationStatus) ([]*model.ProfessionalApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM professional_applications WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		query += " AND status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at ASC"

	var apps []*model.ProfessionalApplication
	err := r.db.SelectContext(ctx, &apps, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *model.ProfessionalApplication) error {
	query := `
		UPDATE professional_applications
		SET status = $1, reviewed_at = $2, reviewed_by = $3, updated_at = $4
		WHERE id = $5
	`
	app.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		app.Status,
		app.ReviewedAt,
		app.ReviewedBy,
		app.UpdatedAt,
		app.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("application", nil)
	}
	return nil
}
