package repository

import (
	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Patient, error)
}
