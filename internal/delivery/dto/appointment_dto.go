package dto

import (
	"time"

	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"` // RFC 3339
	EndTime   time.Time `json:"end_time" validate:"required"`   // RFC 3339
	Reason    string    `json:"reason" validate:"max=200"`
	Notes     string    `json:"notes" validate:"max=2000"`
}

// UpdateAppointmentRequest reschedules an appointment. Nil reason/notes keep the stored value.
type UpdateAppointmentRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Reason    *string   `json:"reason" validate:"omitempty,max=200"`
	Notes     *string   `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status entity.AppointmentStatus `json:"status" validate:"required"`
}

// DentistAppointmentsQuery narrows a dentist's listing; all fields are optional.
// Date selects one practice-local day and takes precedence over From/To.
type DentistAppointmentsQuery struct {
	PatientID *uuid.UUID
	Date      *time.Time
	From      *time.Time
	To        *time.Time
	Status    *entity.AppointmentStatus
}

type PatientAppointmentScope string

const (
	PatientScopeAll      PatientAppointmentScope = "all"
	PatientScopeUpcoming PatientAppointmentScope = "upcoming"
	PatientScopePast     PatientAppointmentScope = "past"
)

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID                `json:"id"`
	PatientID       uuid.UUID                `json:"patient_id"`
	PatientName     string                   `json:"patient_name,omitempty"`
	PatientDNI      string                   `json:"patient_dni,omitempty"`
	DentistID       uuid.UUID                `json:"dentist_id"`
	DentistName     string                   `json:"dentist_name,omitempty"`
	DentistLicense  string                   `json:"dentist_license,omitempty"`
	StartTime       time.Time                `json:"start_time"`
	EndTime         time.Time                `json:"end_time"`
	DurationMinutes int                      `json:"duration_minutes"`
	Status          entity.AppointmentStatus `json:"status"`
	Reason          string                   `json:"reason,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	Active          bool                     `json:"active"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	CreatedBy       string                   `json:"created_by"`
	UpdatedBy       string                   `json:"updated_by"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AppointmentStatsResponse struct {
	DentistID uuid.UUID                          `json:"dentist_id"`
	Counts    map[entity.AppointmentStatus]int64 `json:"counts"`
	Total     int64                              `json:"total"`
}

// ConflictWindow identifies the appointment that blocked a slot
type ConflictWindow struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// ErrorDetail is the machine-readable part of an error response
type ErrorDetail struct {
	Kind     string            `json:"kind"`
	Conflict *ConflictWindow   `json:"conflict,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}
