package entity

import (
	"fmt"
	"strings"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// AppointmentStatuses lists every valid status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// appointmentTransitions is the full edge set; terminal states have no entry.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
}

// ParseAppointmentStatus accepts only the closed set of statuses, case-insensitively.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	candidate := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !candidate.IsValid() {
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
	return candidate, nil
}

// IsValid checks membership in the closed set
func (s AppointmentStatus) IsValid() bool {
	for _, status := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transition
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// CanTransitionTo is the lifecycle gate. Self transitions are not edges.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// UnmarshalText rejects unknown statuses at the JSON and query boundary.
func (s *AppointmentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAppointmentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
