package repository

import (
	"dentalcare-scheduling/internal/domain/entity"
	domainRepo "dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

// FindByEntity returns the trail of one record, oldest first
func (r *auditLogRepository) FindByEntity(db *gorm.DB, entityName string, entityID uuid.UUID) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.Where("entity = ? AND entity_id = ?", entityName, entityID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
