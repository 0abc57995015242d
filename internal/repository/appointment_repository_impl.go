package repository

import (
	"errors"
	"time"

	"dentalcare-scheduling/internal/domain/entity"
	domainRepo "dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

// nonBlockingStatuses never occupy a slot
var nonBlockingStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusCancelled,
	entity.AppointmentStatusNoShow,
}

type appointmentRepository struct {
	now func() time.Time
}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return NewAppointmentRepositoryWithClock(time.Now)
}

// NewAppointmentRepositoryWithClock lets tests pin the audit timestamps
func NewAppointmentRepositoryWithClock(now func() time.Time) domainRepo.AppointmentRepository {
	return &appointmentRepository{now: now}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment, actor string) error {
	// Ownership backstop, evaluated in the caller's transaction
	var owned int64
	err := db.Model(&entity.Patient{}).
		Where("id = ? AND dentist_id = ? AND active = ?", appointment.PatientID, appointment.DentistID, true).
		Count(&owned).Error
	if err != nil {
		return err
	}
	if owned == 0 {
		return domainRepo.ErrConstraintViolation
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.StartTime = appointment.StartTime.UTC()
	appointment.EndTime = appointment.EndTime.UTC()
	appointment.Stamp(r.now().UTC(), actor)

	return translateError(db.Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByID(db *gorm.DB, id uuid.UUID, ownerID uuid.UUID, role entity.OwnerRole) (*entity.Appointment, error) {
	var ownerColumn string
	switch role {
	case entity.OwnerDentist:
		ownerColumn = "dentist_id"
	case entity.OwnerPatient:
		ownerColumn = "patient_id"
	default:
		return nil, nil
	}

	var appointment entity.Appointment
	err := db.Where("id = ? AND active = ?", id, true).
		Where(ownerColumn+" = ?", ownerID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// List returns active appointments only. Time bounds apply to start_time.
func (r *appointmentRepository) List(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Where("active = ?", true)

	order := "start_time ASC"
	if filter != nil {
		if filter.DentistID != nil {
			query = query.Where("dentist_id = ?", *filter.DentistID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.StartFrom != nil {
			query = query.Where("start_time >= ?", filter.StartFrom.UTC())
		}
		if filter.StartBefore != nil {
			query = query.Where("start_time < ?", filter.StartBefore.UTC())
		}
		if filter.Descending {
			order = "start_time DESC"
		}
	}

	var appointments []entity.Appointment
	if err := query.Order(order).Order("id ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindOverlapping evaluates the overlap predicate in the database and returns the blocking rows.
// Pass uuid.Nil as excludeID when nothing is excluded.
func (r *appointmentRepository) FindOverlapping(db *gorm.DB, dentistID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]entity.Appointment, error) {
	query := db.
		Where("dentist_id = ? AND active = ?", dentistID, true).
		Where("status NOT IN ?", nonBlockingStatuses).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())

	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var appointments []entity.Appointment
	if err := query.Order("start_time ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// LockDentist takes a transaction-scoped advisory lock keyed by dentist.
// Other dialects rely on the caller's in-process lock.
func (r *appointmentRepository) LockDentist(db *gorm.DB, dentistID uuid.UUID) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", dentistID.String()).Error
}

func (r *appointmentRepository) Save(db *gorm.DB, appointment *entity.Appointment, actor string) error {
	appointment.StartTime = appointment.StartTime.UTC()
	appointment.EndTime = appointment.EndTime.UTC()
	appointment.Touch(r.now().UTC(), actor)

	return translateError(db.Save(appointment).Error)
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB, dentistID uuid.UUID) (map[entity.AppointmentStatus]int64, error) {
	type statusCount struct {
		Status entity.AppointmentStatus
		Total  int64
	}
	var rows []statusCount

	err := db.Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("dentist_id = ? AND active = ?", dentistID, true).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(entity.AppointmentStatuses))
	for _, status := range entity.AppointmentStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return domainRepo.ErrOverlapViolation
		case pgForeignKeyViolation:
			return domainRepo.ErrConstraintViolation
		}
	}
	return err
}
