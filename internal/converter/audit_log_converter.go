package converter

import (
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
)

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.AuditLogResponse{
			ID:        log.ID,
			Actor:     log.Actor,
			Action:    log.Action,
			Entity:    log.Entity,
			EntityID:  log.EntityID,
			Metadata:  log.Metadata,
			CreatedAt: log.CreatedAt,
		}
	}
	return responses
}
