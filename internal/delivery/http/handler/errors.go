package handler

import (
	"errors"
	"net/http"

	"dentalcare-scheduling/internal/converter"
	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/usecase"
	"dentalcare-scheduling/pkg/response"
	"dentalcare-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Error kinds produced by the HTTP layer itself
const (
	kindValidation = "VALIDATION"
	kindBadRequest = "BAD_REQUEST"
)

// writeError maps scheduling errors to 404 / 400 with their kind; anything
// else is an internal failure already logged by the usecase.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var schedulingErr *usecase.SchedulingError
	if !errors.As(err, &schedulingErr) {
		response.InternalServerError(w, fallback)
		return
	}

	detail := dto.ErrorDetail{
		Kind:     string(schedulingErr.Kind),
		Conflict: converter.ConflictWindowFromAppointment(schedulingErr.Conflict),
	}
	status := http.StatusBadRequest
	if schedulingErr.Kind == usecase.KindNotFound {
		status = http.StatusNotFound
	}
	response.Error(w, status, schedulingErr.Message, detail)
}

func badRequest(w http.ResponseWriter, message string) {
	response.BadRequest(w, message, dto.ErrorDetail{Kind: kindBadRequest})
}

func validationFailed(w http.ResponseWriter, v *validator.CustomValidator, err error) {
	response.ValidationError(w, dto.ErrorDetail{
		Kind:   kindValidation,
		Fields: v.FormatValidationErrors(err),
	})
}

// pathUUID reads a uuid route variable and answers 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		badRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
