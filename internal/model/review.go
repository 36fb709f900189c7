package model

import (
	"github.com/google/uuid"
)

// Review is a client's rating of a professional. One review per
// (client, professional) pair.
type Review struct {
	Base
	ClientID       uuid.UUID `db:"client_id" json:"client_id"`
	ProfessionalID uuid.UUID `db:"professional_id" json:"professional_id"`
	Rating         int       `db:"rating" json:"rating"`
	Comment        string    `db:"comment" json:"comment,omitempty"`
	IsPublic       bool      `db:"is_public" json:"is_public"`
}

type CreateReviewRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	Rating         int       `json:"rating" binding:"required,min=1,max=5"`
	Comment        string    `json:"comment" binding:"max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

// ReviewStats aggregates a professional's public reviews.
type ReviewStats struct {
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"rating_distribution"`
}
