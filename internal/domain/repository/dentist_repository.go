package repository

import (
	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DentistRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Dentist, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Dentist, error)
}
