package converter

import (
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/service"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// index may be nil, in which case display fields stay empty.
func AppointmentToResponse(appointment *entity.Appointment, index *service.DisplayIndex) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	patient := index.Patient(appointment.PatientID)
	dentist := index.Dentist(appointment.DentistID)

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		PatientName:     patient.FullName,
		PatientDNI:      patient.DNI,
		DentistID:       appointment.DentistID,
		DentistName:     dentist.FullName,
		DentistLicense:  dentist.LicenseNumber,
		StartTime:       appointment.StartTime,
		EndTime:         appointment.EndTime,
		DurationMinutes: appointment.DurationMinutes(),
		Status:          appointment.Status,
		Reason:          appointment.Reason,
		Notes:           appointment.Notes,
		Active:          appointment.Active,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
		CreatedBy:       appointment.CreatedBy,
		UpdatedBy:       appointment.UpdatedBy,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment, index *service.DisplayIndex) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], index)
	}
	return responses
}

// ConflictWindowFromAppointment exposes the blocking slot of a conflict
func ConflictWindowFromAppointment(appointment *entity.Appointment) *dto.ConflictWindow {
	if appointment == nil {
		return nil
	}
	return &dto.ConflictWindow{
		AppointmentID: appointment.ID,
		StartTime:     appointment.StartTime,
		EndTime:       appointment.EndTime,
	}
}
