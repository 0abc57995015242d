package service

import (
	"context"
	"time"

	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
	now       func() time.Time
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository, now func() time.Time) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
		now:       now,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID uuid.UUID, oldValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor, action, entityName string, entityID uuid.UUID, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Metadata: entity.JSON{
			"old_value": oldValue,
			"new_value": newValue,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
