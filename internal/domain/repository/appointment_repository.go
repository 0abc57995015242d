package repository

import (
	"errors"
	"time"

	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation is returned when an insert breaks the patient ownership rule
	ErrConstraintViolation = errors.New("appointment violates patient ownership constraint")
	// ErrOverlapViolation is returned when the database rejects an overlapping slot
	ErrOverlapViolation = errors.New("appointment overlaps an existing slot")
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment, actor string) error
	// FindByID ignores the active flag; used for audit reads only
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindActiveByID(db *gorm.DB, id uuid.UUID, ownerID uuid.UUID, role entity.OwnerRole) (*entity.Appointment, error)
	List(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	FindOverlapping(db *gorm.DB, dentistID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]entity.Appointment, error)
	LockDentist(db *gorm.DB, dentistID uuid.UUID) error
	Save(db *gorm.DB, appointment *entity.Appointment, actor string) error
	CountByStatus(db *gorm.DB, dentistID uuid.UUID) (map[entity.AppointmentStatus]int64, error)
}
