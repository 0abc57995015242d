package repository

import (
	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByEntity(db *gorm.DB, entityName string, entityID uuid.UUID) ([]entity.AuditLog, error)
}
