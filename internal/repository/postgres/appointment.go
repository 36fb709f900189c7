package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coucou-beaute/booking-api/internal/model"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

const appointmentColumns = `
	id, professional_id, client_id, service_name, price,
	start_time, end_time, status, notes, cancelled_by,
	created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, professional_id, client_id, service_name, price,
			start_time, end_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.GetDB().ExecContext(ctx, query,
		apt.ID,
		apt.ProfessionalID,
		apt.ClientID,
		apt.ServiceName,
		apt.Price,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.GetDB().GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET service_name = $1, price = $2, start_time = $3, end_time = $4,
			status = $5, notes = $6, cancelled_by = $7, updated_at = $8
		WHERE id = $9
	`
	apt.UpdatedAt = time.Now()

	result, err := r.GetDB().ExecContext(ctx, query,
		apt.ServiceName,
		apt.Price,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Notes,
		apt.CancelledBy,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.ProfessionalID != uuid.Nil {
		query += fmt.Sprintf(" AND professional_id = $%d", argCount)
		args = append(args, filters.ProfessionalID)
		argCount++
	}
	if filters.ClientID != uuid.Nil {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.From.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.From)
		argCount++
	}
	if !filters.To.IsZero() {
		query += fmt.Sprintf(" AND end_time <= $%d", argCount)
		args = append(args, filters.To)
		argCount++
	}

	query += " ORDER BY start_time ASC LIMIT 500"

	var appointments []*model.Appointment
	err := r.GetDB().SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListOverlapping(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE professional_id = $1
		AND start_time < $2
		AND end_time > $3
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.GetDB().SelectContext(ctx, &appointments, query, professionalID, to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping appointments: %w", err)
	}
	return appointments, nil
}

// BookPending serializes check-then-insert per professional per day through a
// transaction-scoped advisory lock, closing the window in which two clients
// could both see the slot as available.
func (r *appointmentRepository) BookPending(ctx context.Context, apt *model.Appointment, slotCheck func(existing []*model.Appointment) error) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockKey := fmt.Sprintf("%s:%s", apt.ProfessionalID, apt.StartTime.Format("2006-01-02"))
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return fmt.Errorf("failed to acquire booking lock: %w", err)
		}

		y, m, d := apt.StartTime.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, apt.StartTime.Location())
		dayEnd := dayStart.Add(24 * time.Hour)

		query := `
			SELECT ` + appointmentColumns + `
			FROM appointments
			WHERE professional_id = $1
			AND start_time < $2
			AND end_time > $3
			ORDER BY start_time ASC
		`
		var existing []*model.Appointment
		if err := tx.SelectContext(ctx, &existing, query, apt.ProfessionalID, dayEnd, dayStart); err != nil {
			return fmt.Errorf("failed to re-read day appointments: %w", err)
		}

		if err := slotCheck(existing); err != nil {
			return err
		}

		apt.ID = uuid.New()
		apt.Status = model.AppointmentStatusPending
		apt.CreatedAt = time.Now()
		apt.UpdatedAt = time.Now()

		insert := `
			INSERT INTO appointments (
				id, professional_id, client_id, service_name, price,
				start_time, end_time, status, notes,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.ExecContext(ctx, insert,
			apt.ID,
			apt.ProfessionalID,
			apt.ClientID,
			apt.ServiceName,
			apt.Price,
			apt.StartTime,
			apt.EndTime,
			apt.Status,
			apt.Notes,
			apt.CreatedAt,
			apt.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) StatusCounts(ctx context.Context, professionalID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM appointments
		WHERE professional_id = $1
		GROUP BY status
	`
	rows, err := r.GetDB().QueryxContext(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.AppointmentStatus]int)
	for rows.Next() {
		var status model.AppointmentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
