package service

import (
	"context"
	"errors"
	"time"

	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
)

var ErrUnknownCalendarView = errors.New("calendar view must be day, week or month")

const (
	calendarDateLayout  = "2006-01-02"
	calendarClockLayout = "15:04"
)

// CalendarProjector turns a dentist's appointments into calendar records
// expressed in the practice time zone.
type CalendarProjector struct {
	enricher *Enricher
	location *time.Location
}

func NewCalendarProjector(enricher *Enricher, location *time.Location) *CalendarProjector {
	if location == nil {
		location = time.UTC
	}
	return &CalendarProjector{
		enricher: enricher,
		location: location,
	}
}

// Period returns the half-open [from, to) window of a view anchored at date.
// Only the calendar date of `date` is used, read as a practice-local day.
// Day and week start at that day; month covers its calendar month.
func (p *CalendarProjector) Period(view dto.CalendarView, date time.Time) (time.Time, time.Time, error) {
	day := p.StartOfDay(date)

	switch view {
	case dto.CalendarViewDay:
		return day, day.AddDate(0, 0, 1), nil
	case dto.CalendarViewWeek:
		return day, day.AddDate(0, 0, 7), nil
	case dto.CalendarViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, p.location)
		return first, first.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, ErrUnknownCalendarView
	}
}

// StartOfDay is midnight in the practice zone of the calendar date of `date`
func (p *CalendarProjector) StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.location)
}

// Project keeps the input order, which callers supply sorted by start time.
func (p *CalendarProjector) Project(ctx context.Context, appointments []entity.Appointment) []dto.CalendarEntryResponse {
	index := p.enricher.Resolve(ctx, appointments)

	entries := make([]dto.CalendarEntryResponse, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		start := a.StartTime.In(p.location)
		end := a.EndTime.In(p.location)
		patient := index.Patient(a.PatientID)
		dentist := index.Dentist(a.DentistID)

		entries[i] = dto.CalendarEntryResponse{
			AppointmentID:   a.ID,
			Date:            start.Format(calendarDateLayout),
			StartTime:       start.Format(calendarClockLayout),
			EndTime:         end.Format(calendarClockLayout),
			DurationMinutes: a.DurationMinutes(),
			Status:          a.Status,
			Reason:          a.Reason,
			PatientID:       a.PatientID,
			PatientName:     patient.FullName,
			PatientDNI:      patient.DNI,
			DentistID:       a.DentistID,
			DentistName:     dentist.FullName,
			DentistLicense:  dentist.LicenseNumber,
		}
	}
	return entries
}
