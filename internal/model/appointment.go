package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Actor identifies who initiated a status change. Passed explicitly so
// side-effect dispatch never has to infer it from ambient state.
type Actor string

const (
	ActorProfessional Actor = "professional"
	ActorClient       Actor = "client"
	ActorAdmin        Actor = "admin"
)

// Appointment is the unit of conflict checking: two appointments for the
// same professional conflict when their [start, end) intervals overlap.
type Appointment struct {
	Base
	ProfessionalID uuid.UUID         `db:"professional_id" json:"professional_id"`
	ClientID       *uuid.UUID        `db:"client_id" json:"client_id,omitempty"`
	ServiceName    string            `db:"service_name" json:"service_name"`
	Price          float64           `db:"price" json:"price"`
	StartTime      time.Time         `db:"start_time" json:"start"`
	EndTime        time.Time         `db:"end_time" json:"end"`
	Status         AppointmentStatus `db:"status" json:"status"`
	Notes          string            `db:"notes" json:"notes,omitempty"`
	CancelledBy    *Actor            `db:"cancelled_by" json:"cancelled_by,omitempty"`
}

type BookSlotRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	ServiceName    string    `json:"service_name" binding:"required,max=255"`
	Price          float64   `json:"price" binding:"gte=0"`
	StartTime      time.Time `json:"start" binding:"required"`
	EndTime        time.Time `json:"end" binding:"required"`
}

type CreateAppointmentRequest struct {
	ClientID    *uuid.UUID        `json:"client_id"`
	ServiceName string            `json:"service_name" binding:"required,max=255"`
	Price       float64           `json:"price" binding:"gte=0"`
	StartTime   time.Time         `json:"start" binding:"required"`
	EndTime     time.Time         `json:"end" binding:"required"`
	Status      AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	Notes       string            `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	ServiceName *string    `json:"service_name" binding:"omitempty,max=255"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
	StartTime   *time.Time `json:"start"`
	EndTime     *time.Time `json:"end"`
	Notes       *string    `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	Status         AppointmentStatus
	From           time.Time
	To             time.Time
}

// SlotStatus classifies one candidate slot of a professional's day.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotPending   SlotStatus = "pending"
	SlotConfirmed SlotStatus = "confirmed"
)

// Slot is a day-slot descriptor returned to the booking UI.
type Slot struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
}
