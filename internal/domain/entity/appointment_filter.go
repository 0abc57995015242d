package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for querying active appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DentistID   *uuid.UUID
	PatientID   *uuid.UUID
	Status      *AppointmentStatus
	StartFrom   *time.Time // inclusive, compared against start_time
	StartBefore *time.Time // exclusive, compared against start_time
	Descending  bool
}

// OwnerRole selects which reference an ownership-scoped lookup matches against
type OwnerRole string

const (
	OwnerDentist OwnerRole = "DENTIST"
	OwnerPatient OwnerRole = "PATIENT"
)
