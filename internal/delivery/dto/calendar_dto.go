package dto

import (
	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

type CalendarView string

const (
	CalendarViewDay   CalendarView = "day"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewMonth CalendarView = "month"
)

// CalendarEntryResponse is one appointment as shown on the calendar.
// Date and clock times are expressed in the practice time zone.
type CalendarEntryResponse struct {
	AppointmentID   uuid.UUID                `json:"appointment_id"`
	Date            string                   `json:"date"`       // YYYY-MM-DD
	StartTime       string                   `json:"start_time"` // HH:MM
	EndTime         string                   `json:"end_time"`   // HH:MM
	DurationMinutes int                      `json:"duration_minutes"`
	Status          entity.AppointmentStatus `json:"status"`
	Reason          string                   `json:"reason,omitempty"`
	PatientID       uuid.UUID                `json:"patient_id"`
	PatientName     string                   `json:"patient_name,omitempty"`
	PatientDNI      string                   `json:"patient_dni,omitempty"`
	DentistID       uuid.UUID                `json:"dentist_id"`
	DentistName     string                   `json:"dentist_name,omitempty"`
	DentistLicense  string                   `json:"dentist_license,omitempty"`
}

type CalendarResponse struct {
	DentistID uuid.UUID               `json:"dentist_id"`
	View      CalendarView            `json:"view"`
	From      string                  `json:"from"` // YYYY-MM-DD, inclusive
	To        string                  `json:"to"`   // YYYY-MM-DD, exclusive
	Entries   []CalendarEntryResponse `json:"entries"`
	Total     int                     `json:"total"`
}
