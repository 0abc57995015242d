package usecase

import (
	"context"
	"errors"
	"time"

	"dentalcare-scheduling/internal/converter"
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/service"

	"github.com/google/uuid"
)

const calendarDateLayout = "2006-01-02"

// GetAppointment returns an active appointment seen from its dentist or its patient.
func (u *appointmentUsecase) GetAppointment(ctx context.Context, id, ownerID uuid.UUID, owner entity.OwnerRole) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindActiveByID(u.db.WithContext(ctx), id, ownerID, owner)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return u.respond(ctx, appointment), nil
}

// GetDentistAppointments lists a dentist's active appointments. Date selects one
// practice-local day and wins over From/To.
func (u *appointmentUsecase) GetDentistAppointments(ctx context.Context, dentistID uuid.UUID, query *dto.DentistAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{DentistID: &dentistID}

	if query != nil {
		filter.PatientID = query.PatientID
		filter.Status = query.Status

		switch {
		case query.Date != nil:
			from := u.projector.StartOfDay(*query.Date)
			before := from.AddDate(0, 0, 1)
			filter.StartFrom = &from
			filter.StartBefore = &before
		default:
			if query.From != nil && query.To != nil && !query.From.Before(*query.To) {
				return nil, newError(KindInvalidRange, "from must be before to")
			}
			filter.StartFrom = query.From
			filter.StartBefore = query.To
		}
	}

	return u.list(ctx, filter)
}

// GetPatientAppointments lists a patient's active appointments across dentists.
func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID, scope dto.PatientAppointmentScope) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{PatientID: &patientID}
	now := u.now()

	switch scope {
	case dto.PatientScopeAll, "":
	case dto.PatientScopeUpcoming:
		filter.StartFrom = &now
	case dto.PatientScopePast:
		filter.StartBefore = &now
		filter.Descending = true
	default:
		return nil, newError(KindInvalidQuery, "scope must be all, upcoming or past")
	}

	return u.list(ctx, filter)
}

func (u *appointmentUsecase) CountAppointmentsByStatus(ctx context.Context, dentistID uuid.UUID) (*dto.AppointmentStatsResponse, error) {
	counts, err := u.appointmentRepo.CountByStatus(u.db.WithContext(ctx), dentistID)
	if err != nil {
		u.log.Warnf("Failed to count appointments for dentist %s: %+v", dentistID, err)
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &dto.AppointmentStatsResponse{
		DentistID: dentistID,
		Counts:    counts,
		Total:     total,
	}, nil
}

// GetCalendar projects the dentist's active appointments of one view period.
func (u *appointmentUsecase) GetCalendar(ctx context.Context, dentistID uuid.UUID, view dto.CalendarView, date time.Time) (*dto.CalendarResponse, error) {
	from, to, err := u.projector.Period(view, date)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCalendarView) {
			return nil, newError(KindInvalidQuery, "%s", err.Error())
		}
		return nil, err
	}

	appointments, err := u.appointmentRepo.List(u.db.WithContext(ctx), &entity.AppointmentFilter{
		DentistID:   &dentistID,
		StartFrom:   &from,
		StartBefore: &to,
	})
	if err != nil {
		u.log.Warnf("Failed to load calendar of dentist %s: %+v", dentistID, err)
		return nil, err
	}

	entries := u.projector.Project(ctx, appointments)
	return &dto.CalendarResponse{
		DentistID: dentistID,
		View:      view,
		From:      from.Format(calendarDateLayout),
		To:        to.Format(calendarDateLayout),
		Entries:   entries,
		Total:     len(entries),
	}, nil
}

func (u *appointmentUsecase) list(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.List(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	index := u.enricher.Resolve(ctx, appointments)
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, index),
		Total:        len(appointments),
	}, nil
}
