package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an immutable professional-scoped message created as a side
// effect of appointment lifecycle events. The read flag is its only mutable
// field.
type Notification struct {
	Base
	ProfessionalID uuid.UUID `db:"professional_id" json:"professional_id"`
	Title          string    `db:"title" json:"title"`
	Body           string    `db:"body" json:"body"`
	IsRead         bool      `db:"is_read" json:"is_read"`
}

// NotificationEvent is the in-app payload published to the message broker so
// connected dashboards can refresh without polling.
type NotificationEvent struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}
