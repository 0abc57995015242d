package usecase

import (
	"context"

	"dentalcare-scheduling/internal/converter"
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	GetAppointmentHistory(ctx context.Context, id, dentistID uuid.UUID) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	auditLogRepo    repository.AuditLogRepository
	appointmentRepo repository.AppointmentRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	appointmentRepo repository.AppointmentRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:              db,
		log:             log,
		auditLogRepo:    auditLogRepo,
		appointmentRepo: appointmentRepo,
	}
}

// GetAppointmentHistory returns the audit trail of an appointment, cancelled
// ones included, as long as it belongs to the dentist.
func (u *auditLogUsecase) GetAppointmentHistory(ctx context.Context, id, dentistID uuid.UUID) (*dto.AuditLogListResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil || appointment.DentistID != dentistID {
		return nil, ErrAppointmentNotFound
	}

	logs, err := u.auditLogRepo.FindByEntity(db, entity.AuditEntityAppointment, id)
	if err != nil {
		u.log.Warnf("Failed to find audit logs of appointment %s: %+v", id, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
