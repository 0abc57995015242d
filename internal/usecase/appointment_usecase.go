package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare-scheduling/internal/converter"
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/delivery/http/middleware"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/domain/repository"
	"dentalcare-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// systemActor is recorded in audit fields when no caller is authenticated
const systemActor = "system"

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, dentistID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id, dentistID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointmentStatus(ctx context.Context, id, dentistID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id, dentistID uuid.UUID) error

	GetAppointment(ctx context.Context, id, ownerID uuid.UUID, owner entity.OwnerRole) (*dto.AppointmentResponse, error)
	GetDentistAppointments(ctx context.Context, dentistID uuid.UUID, query *dto.DentistAppointmentsQuery) (*dto.AppointmentListResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID, scope dto.PatientAppointmentScope) (*dto.AppointmentListResponse, error)
	CountAppointmentsByStatus(ctx context.Context, dentistID uuid.UUID) (*dto.AppointmentStatsResponse, error)
	GetCalendar(ctx context.Context, dentistID uuid.UUID, view dto.CalendarView, date time.Time) (*dto.CalendarResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	dentistRepo     repository.DentistRepository
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
	enricher        *service.Enricher
	projector       *service.CalendarProjector
	notifier        service.Notifier
	locks           *service.DentistLocks
	pastGrace       time.Duration
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	enricher *service.Enricher,
	projector *service.CalendarProjector,
	notifier service.Notifier,
	locks *service.DentistLocks,
	pastGrace time.Duration,
	now func() time.Time,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		patientRepo:     patientRepo,
		auditService:    auditService,
		enricher:        enricher,
		projector:       projector,
		notifier:        notifier,
		locks:           locks,
		pastGrace:       pastGrace,
		now:             now,
	}
}

// CreateAppointment books a new slot for a dentist.
//
// Flow:
// 1. Resolve dentist and patient, check ownership and activity
// 2. Validate the window (range, not in the past)
// 3. Under the dentist lock: conflict check, insert, audit row
// 4. After commit: publish event, enrich response
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, dentistID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	// Step 1: Resolve dentist and patient
	dentist, err := u.dentistRepo.FindByID(db, dentistID)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", dentistID, err)
		return nil, err
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}
	if !dentist.Active {
		return nil, newError(KindInactiveEntity, "dentist %s is inactive", dentistID)
	}

	patient, err := u.patientRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !patient.BelongsTo(dentistID) {
		return nil, ErrOwnership
	}
	if !patient.Active {
		return nil, newError(KindInactiveEntity, "patient %s is inactive", req.PatientID)
	}

	// Step 2: Validate window
	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	if err := u.validateWindow(start, end, true); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID: req.PatientID,
		DentistID: dentistID,
		StartTime: start,
		EndTime:   end,
		Status:    entity.AppointmentStatusScheduled,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Active:    true,
	}
	actor := actorFromContext(ctx)

	// Step 3: Conflict check and insert as one unit
	err = u.inDentistTransaction(ctx, dentistID, func(tx *gorm.DB) error {
		if err := u.ensureFree(tx, appointment); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(tx, appointment, actor); err != nil {
			switch {
			case errors.Is(err, repository.ErrOverlapViolation):
				return ErrTimeConflict
			case errors.Is(err, repository.ErrConstraintViolation):
				return ErrOwnership
			}
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionAppointmentCreate, entity.AuditEntityAppointment, appointment.ID, appointment)
	})
	if err != nil {
		return nil, u.failure("create appointment", err)
	}

	// Step 4: Side effects that never undo the booking
	u.log.Infof("Appointment created: id=%s, dentist=%s, patient=%s, start=%s", appointment.ID, dentistID, appointment.PatientID, appointment.StartTime.Format(time.RFC3339))
	u.publish(service.EventAppointmentCreated, appointment)

	return u.respond(ctx, appointment), nil
}

// UpdateAppointment reschedules an appointment and edits its free text.
// Patient and status never change through this path.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id, dentistID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	actor := actorFromContext(ctx)

	var appointment *entity.Appointment
	err := u.inDentistTransaction(ctx, dentistID, func(tx *gorm.DB) error {
		current, err := u.loadForDentist(tx, id, dentistID)
		if err != nil {
			return err
		}
		if current.IsTerminal() {
			return newError(KindInvalidTransition, "cannot reschedule a %s appointment", current.Status)
		}

		// Moving the start re-arms the past check; keeping it does not
		if err := u.validateWindow(start, end, !start.Equal(current.StartTime)); err != nil {
			return err
		}

		before := *current
		current.StartTime = start
		current.EndTime = end
		if req.Reason != nil {
			current.Reason = *req.Reason
		}
		if req.Notes != nil {
			current.Notes = *req.Notes
		}

		if err := u.ensureFree(tx, current); err != nil {
			return err
		}
		if err := u.appointmentRepo.Save(tx, current, actor); err != nil {
			if errors.Is(err, repository.ErrOverlapViolation) {
				return ErrTimeConflict
			}
			return err
		}

		appointment = current
		return u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionAppointmentUpdate, entity.AuditEntityAppointment, current.ID, before, current)
	})
	if err != nil {
		return nil, u.failure("update appointment", err)
	}

	u.log.Infof("Appointment updated: id=%s, start=%s, end=%s", appointment.ID, appointment.StartTime.Format(time.RFC3339), appointment.EndTime.Format(time.RFC3339))
	u.publish(service.EventAppointmentUpdated, appointment)

	return u.respond(ctx, appointment), nil
}

// UpdateAppointmentStatus moves an appointment along the status lifecycle.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, id, dentistID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if !req.Status.IsValid() {
		return nil, newError(KindInvalidTransition, "unknown status %q", req.Status)
	}
	actor := actorFromContext(ctx)

	var appointment *entity.Appointment
	err := u.inDentistTransaction(ctx, dentistID, func(tx *gorm.DB) error {
		current, err := u.loadForDentist(tx, id, dentistID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(req.Status) {
			return newTransitionError(current.Status, req.Status)
		}

		before := *current
		current.Status = req.Status
		if err := u.appointmentRepo.Save(tx, current, actor); err != nil {
			return err
		}

		appointment = current
		return u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionAppointmentStatus, entity.AuditEntityAppointment, current.ID, before, current)
	})
	if err != nil {
		return nil, u.failure("update appointment status", err)
	}

	u.log.Infof("Appointment status changed: id=%s, status=%s", appointment.ID, appointment.Status)
	u.publish(service.EventAppointmentStatusChanged, appointment)

	return u.respond(ctx, appointment), nil
}

// CancelAppointment is the soft delete. A second call finds nothing and
// returns ErrAppointmentNotFound, which callers treat as already done.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id, dentistID uuid.UUID) error {
	actor := actorFromContext(ctx)

	var appointment *entity.Appointment
	err := u.inDentistTransaction(ctx, dentistID, func(tx *gorm.DB) error {
		current, err := u.loadForDentist(tx, id, dentistID)
		if err != nil {
			return err
		}
		if current.IsTerminal() && current.Status != entity.AppointmentStatusCancelled {
			return newTransitionError(current.Status, entity.AppointmentStatusCancelled)
		}

		before := *current
		current.Cancel()
		if err := u.appointmentRepo.Save(tx, current, actor); err != nil {
			return err
		}

		appointment = current
		return u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionAppointmentCancel, entity.AuditEntityAppointment, current.ID, before)
	})
	if err != nil {
		return u.failure("cancel appointment", err)
	}

	u.log.Infof("Appointment cancelled: id=%s, dentist=%s", appointment.ID, dentistID)
	u.publish(service.EventAppointmentCancelled, appointment)

	return nil
}

// inDentistTransaction runs fn in a transaction serialized with every other
// write for the same dentist.
//
// Lock Ordering (to prevent deadlocks):
// 1. In-process dentist mutex
// 2. Database transaction
// 3. Advisory lock inside the transaction
func (u *appointmentUsecase) inDentistTransaction(ctx context.Context, dentistID uuid.UUID, fn func(tx *gorm.DB) error) error {
	unlock := u.locks.Lock(dentistID)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := u.appointmentRepo.LockDentist(tx, dentistID); err != nil {
		return fmt.Errorf("lock dentist %s: %w", dentistID, err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit().Error
}

func (u *appointmentUsecase) loadForDentist(tx *gorm.DB, id, dentistID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindActiveByID(tx, id, dentistID, entity.OwnerDentist)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// ensureFree fails with a TIME_CONFLICT naming the first blocking appointment.
func (u *appointmentUsecase) ensureFree(tx *gorm.DB, candidate *entity.Appointment) error {
	overlapping, err := u.appointmentRepo.FindOverlapping(tx, candidate.DentistID, candidate.StartTime, candidate.EndTime, candidate.ID)
	if err != nil {
		return err
	}
	if blocking := entity.FindConflict(candidate, overlapping); blocking != nil {
		return newTimeConflictError(blocking)
	}
	return nil
}

// validateWindow checks start < end and, when checkPast is set, that start
// lies after now minus the grace window.
func (u *appointmentUsecase) validateWindow(start, end time.Time, checkPast bool) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if checkPast && !start.After(u.now().Add(-u.pastGrace)) {
		return ErrPastScheduling
	}
	return nil
}

func (u *appointmentUsecase) respond(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	index := u.enricher.Resolve(ctx, []entity.Appointment{*appointment})
	return converter.AppointmentToResponse(appointment, index)
}

func (u *appointmentUsecase) publish(eventType string, appointment *entity.Appointment) {
	if u.notifier == nil {
		return
	}
	u.notifier.Publish(service.NewAppointmentEvent(eventType, appointment, u.now().UTC()))
}

// failure passes client errors through and logs everything else.
func (u *appointmentUsecase) failure(operation string, err error) error {
	var schedulingErr *SchedulingError
	if errors.As(err, &schedulingErr) {
		return err
	}
	u.log.Errorf("Failed to %s: %+v", operation, err)
	return fmt.Errorf("%s: %w", operation, err)
}

func actorFromContext(ctx context.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return userID.String()
	}
	return systemActor
}
