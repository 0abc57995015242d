package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/usecase"
	"dentalcare-scheduling/pkg/response"
	"dentalcare-scheduling/pkg/validator"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		validationFailed(w, h.validator, err)
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), dentistID, &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		validationFailed(w, h.validator, err)
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), appointmentID, dentistID, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	// Unknown status names fail here through AppointmentStatus.UnmarshalText
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body: status must be one of SCHEDULED, CONFIRMED, COMPLETED, CANCELLED, NO_SHOW")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		validationFailed(w, h.validator, err)
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointmentStatus(r.Context(), appointmentID, dentistID, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID, dentistID); err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.NoContent(w)
}

// GetAppointment serves /appointments/{id} for exactly one of ?dentistId= or ?patientId=.
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	query := r.URL.Query()
	dentistParam, patientParam := query.Get("dentistId"), query.Get("patientId")
	var (
		raw   string
		owner entity.OwnerRole
	)
	switch {
	case dentistParam != "" && patientParam == "":
		raw, owner = dentistParam, entity.OwnerDentist
	case patientParam != "" && dentistParam == "":
		raw, owner = patientParam, entity.OwnerPatient
	default:
		badRequest(w, "Exactly one of dentistId or patientId is required")
		return
	}
	ownerID, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "Invalid owner ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID, ownerID, owner)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetDentistAppointments(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}

	query, err := parseDentistQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	appointments, err := h.appointmentUsecase.GetDentistAppointments(r.Context(), dentistID, query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetPatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(w, r, "patientId", "patient")
	if !ok {
		return
	}

	scope := dto.PatientAppointmentScope(r.URL.Query().Get("scope"))
	appointments, err := h.appointmentUsecase.GetPatientAppointments(r.Context(), patientID, scope)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointmentStats(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}

	stats, err := h.appointmentUsecase.CountAppointmentsByStatus(r.Context(), dentistID)
	if err != nil {
		writeError(w, err, "Failed to get appointment statistics")
		return
	}

	response.Success(w, http.StatusOK, "Appointment statistics retrieved successfully", stats)
}

func (h *AppointmentHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	dentistID, ok := pathUUID(w, r, "dentistId", "dentist")
	if !ok {
		return
	}

	query := r.URL.Query()
	view := dto.CalendarView(query.Get("view"))
	if view == "" {
		view = dto.CalendarViewWeek
	}
	date, err := time.Parse(dateLayout, query.Get("date"))
	if err != nil {
		badRequest(w, "Invalid date format, use YYYY-MM-DD")
		return
	}

	calendar, err := h.appointmentUsecase.GetCalendar(r.Context(), dentistID, view, date)
	if err != nil {
		writeError(w, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

func parseDentistQuery(r *http.Request) (*dto.DentistAppointmentsQuery, error) {
	values := r.URL.Query()
	query := &dto.DentistAppointmentsQuery{}

	if raw := values.Get("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("Invalid patient ID")
		}
		query.PatientID = &id
	}
	if raw := values.Get("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New("Invalid date format, use YYYY-MM-DD")
		}
		query.Date = &date
	}
	for _, bound := range []struct {
		name   string
		target **time.Time
	}{
		{"from", &query.From},
		{"to", &query.To},
	} {
		raw := values.Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New("Invalid " + bound.name + " time, use RFC 3339")
		}
		*bound.target = &t
	}
	if raw := values.Get("status"); raw != "" {
		status, err := entity.ParseAppointmentStatus(raw)
		if err != nil {
			return nil, err
		}
		query.Status = &status
	}

	return query, nil
}
