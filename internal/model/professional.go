package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Professional is a verified service provider. Identity fields are immutable
// after creation; profile fields and the schedule configuration are replaced
// wholesale on every profile save.
type Professional struct {
	Base
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	Password     string         `db:"-" json:"password,omitempty"`
	PasswordHash string         `db:"password_hash" json:"-"`
	BusinessName string         `db:"business_name" json:"business_name"`
	IsVerified   bool           `db:"is_verified" json:"is_verified"`
	Address      string         `db:"address" json:"address"`
	City         string         `db:"city" json:"city"`
	Latitude     *float64       `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64       `db:"longitude" json:"longitude,omitempty"`
	OpenDays     pq.StringArray `db:"open_days" json:"open_days"`
	HoursStart   string         `db:"hours_start" json:"hours_start"`
	HoursEnd     string         `db:"hours_end" json:"hours_end"`
}

// ScheduleConfig is the slice of a professional's profile consumed by
// availability computation: open weekday codes plus a single daily window
// shared across all open days.
type ScheduleConfig struct {
	OpenDays   []string `json:"open_days"`
	HoursStart string   `json:"hours_start"`
	HoursEnd   string   `json:"hours_end"`
}

func (p *Professional) ScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		OpenDays:   p.OpenDays,
		HoursStart: p.HoursStart,
		HoursEnd:   p.HoursEnd,
	}
}

type UpdateProfileRequest struct {
	Name         *string  `json:"name"`
	BusinessName *string  `json:"business_name"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	OpenDays     []string `json:"open_days" binding:"omitempty,dive,oneof=mon tue wed thu fri sat sun"`
	HoursStart   *string  `json:"hours_start" binding:"omitempty,clock"`
	HoursEnd     *string  `json:"hours_end" binding:"omitempty,clock"`
}

type ProfessionalFilters struct {
	City         string
	VerifiedOnly bool
	Search       string
}

// ProfessionalApplication is a pending request to join the platform. An
// administrator approving it creates the Professional.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type ProfessionalApplication struct {
	Base
	Email        string            `db:"email" json:"email" binding:"required,email"`
	Name         string            `db:"name" json:"name" binding:"required,max=255"`
	BusinessName string            `db:"business_name" json:"business_name"`
	Address      string            `db:"address" json:"address"`
	City         string            `db:"city" json:"city"`
	Status       ApplicationStatus `db:"status" json:"status"`
	ReviewedAt   *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy   *uuid.UUID        `db:"reviewed_by" json:"reviewed_by,omitempty"`
}
