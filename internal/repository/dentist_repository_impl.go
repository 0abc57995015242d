package repository

import (
	"errors"

	"dentalcare-scheduling/internal/domain/entity"
	domainRepo "dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistRepository struct{}

func NewDentistRepository() domainRepo.DentistRepository {
	return &dentistRepository{}
}

func (r *dentistRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Dentist, error) {
	var dentist entity.Dentist
	err := db.Where("id = ?", id).First(&dentist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dentist, nil
}

func (r *dentistRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Dentist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var dentists []entity.Dentist
	if err := db.Where("id IN ?", ids).Find(&dentists).Error; err != nil {
		return nil, err
	}
	return dentists, nil
}
