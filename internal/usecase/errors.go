package usecase

import (
	"fmt"

	"dentalcare-scheduling/internal/domain/entity"
)

// ErrorKind is the stable machine-readable category of a scheduling error
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindOwnership         ErrorKind = "OWNERSHIP"
	KindInactiveEntity    ErrorKind = "INACTIVE_ENTITY"
	KindInvalidRange      ErrorKind = "INVALID_RANGE"
	KindPastScheduling    ErrorKind = "PAST_SCHEDULING"
	KindTimeConflict      ErrorKind = "TIME_CONFLICT"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindInvalidQuery      ErrorKind = "INVALID_QUERY"
)

// SchedulingError is a client-visible failure. Errors compare equal under
// errors.Is when their kinds match, so the sentinels below match every
// error of their kind regardless of message.
type SchedulingError struct {
	Kind    ErrorKind
	Message string
	// Conflict is the blocking appointment of a TIME_CONFLICT, when known
	Conflict *entity.Appointment
}

func (e *SchedulingError) Error() string {
	return e.Message
}

func (e *SchedulingError) Is(target error) bool {
	t, ok := target.(*SchedulingError)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...interface{}) *SchedulingError {
	return &SchedulingError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrAppointmentNotFound = &SchedulingError{Kind: KindNotFound, Message: "appointment not found"}
	ErrDentistNotFound     = &SchedulingError{Kind: KindNotFound, Message: "dentist not found"}
	ErrPatientNotFound     = &SchedulingError{Kind: KindNotFound, Message: "patient not found"}
	ErrOwnership           = &SchedulingError{Kind: KindOwnership, Message: "patient does not belong to this dentist"}
	ErrInactiveEntity      = &SchedulingError{Kind: KindInactiveEntity, Message: "entity is inactive"}
	ErrInvalidRange        = &SchedulingError{Kind: KindInvalidRange, Message: "start time must be before end time"}
	ErrPastScheduling      = &SchedulingError{Kind: KindPastScheduling, Message: "cannot schedule an appointment in the past"}
	ErrTimeConflict        = &SchedulingError{Kind: KindTimeConflict, Message: "time slot overlaps an existing appointment"}
	ErrInvalidTransition   = &SchedulingError{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrInvalidQuery        = &SchedulingError{Kind: KindInvalidQuery, Message: "invalid query"}
)

func newTimeConflictError(blocking *entity.Appointment) *SchedulingError {
	if blocking == nil {
		return ErrTimeConflict
	}
	return &SchedulingError{
		Kind: KindTimeConflict,
		Message: fmt.Sprintf("time slot overlaps appointment %s (%s - %s)",
			blocking.ID, blocking.StartTime.Format("2006-01-02T15:04Z07:00"), blocking.EndTime.Format("2006-01-02T15:04Z07:00")),
		Conflict: blocking,
	}
}

func newTransitionError(from, to entity.AppointmentStatus) *SchedulingError {
	return newError(KindInvalidTransition, "cannot change status from %s to %s", from, to)
}
