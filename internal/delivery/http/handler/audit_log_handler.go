package handler

import (
	"net/http"

	"dentalcare-scheduling/internal/usecase"
	"dentalcare-scheduling/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAppointmentHistory(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	history, err := h.auditLogUsecase.GetAppointmentHistory(r.Context(), appointmentID, dentistID)
	if err != nil {
		writeError(w, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}
