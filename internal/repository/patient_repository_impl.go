package repository

import (
	"errors"

	"dentalcare-scheduling/internal/domain/entity"
	domainRepo "dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Patient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var patients []entity.Patient
	if err := db.Where("id IN ?", ids).Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}
