package entity

import (
	"encoding/json"
	"testing"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusNoShow, true},
		{AppointmentStatusScheduled, AppointmentStatusScheduled, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusNoShow, true},
		{AppointmentStatusConfirmed, AppointmentStatusScheduled, false},
		{AppointmentStatusConfirmed, AppointmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalStatusesAcceptNothing(t *testing.T) {
	for _, from := range AppointmentStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range AppointmentStatuses {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	got, err := ParseAppointmentStatus(" no_show ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != AppointmentStatusNoShow {
		t.Fatalf("got %s, want NO_SHOW", got)
	}

	if _, err := ParseAppointmentStatus("RESCHEDULED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestAppointmentStatusJSONIsClosed(t *testing.T) {
	var body struct {
		Status AppointmentStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"confirmed"}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Status != AppointmentStatusConfirmed {
		t.Fatalf("got %s", body.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"PENDING"}`), &body); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}
