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

const reviewColumns = `
	id, client_id, professional_id, rating, comment, is_public, created_at, updated_at
`

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, client_id, professional_id, rating, comment, is_public,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.ClientID,
		review.ProfessionalID,
		review.Rating,
		review.Comment,
		review.IsPublic,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var review model.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("review", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, is_public = $3, updated_at = $4
		WHERE id = $5
	`
	review.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		review.Rating,
		review.Comment,
		review.IsPublic,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("review", nil)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("review", nil)
	}
	return nil
}

func (r *reviewRepository) ListForProfessional(ctx context.Context, professionalID uuid.UUID, publicOnly bool) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE professional_id = $1`
	if publicOnly {
		query += " AND is_public = TRUE"
	}
	query += " ORDER BY created_at DESC"

	var reviews []*model.Review
	err := r.db.SelectContext(ctx, &reviews, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Exists(ctx context.Context, clientID, professionalID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE client_id = $1 AND professional_id = $2)`,
		clientID, professionalID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return exists, nil
}

func (r *reviewRepository) Stats(ctx context.Context, professionalID uuid.UUID) (*model.ReviewStats, error) {
	query := `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE professional_id = $1 AND is_public = TRUE
		GROUP BY rating
	`
	rows, err := r.db.QueryxContext(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer rows.Close()

	stats := &model.ReviewStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating count: %w", err)
		}
		stats.Distribution[rating] = count
		stats.TotalReviews += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}
