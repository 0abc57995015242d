package usecase

import (
	"context"
	"testing"
	"time"

	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/testutil"

	"github.com/google/uuid"
)

func TestGetCalendarMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, time.Date(2024, time.April, 30, 23, 30, 0, 0, time.UTC), may(1, 0, 0))
	second := f.book(t, may(2, 9, 0), may(2, 9, 45))
	first := f.book(t, may(1, 10, 0), may(1, 10, 30))
	last := f.book(t, may(31, 23, 0), may(31, 23, 30))
	f.book(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.June, 1, 0, 30, 0, 0, time.UTC))
	removed := f.book(t, may(15, 9, 0), may(15, 9, 30))
	if err := f.usecase.CancelAppointment(ctx, removed.ID, f.dentist.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	calendar, err := f.usecase.GetCalendar(ctx, f.dentist.ID, dto.CalendarViewMonth, may(17, 0, 0))
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if calendar.From != "2024-05-01" || calendar.To != "2024-06-01" {
		t.Fatalf("period = [%s, %s)", calendar.From, calendar.To)
	}

	want := []uuid.UUID{first.ID, second.ID, last.ID}
	if calendar.Total != len(want) {
		t.Fatalf("total = %d, want %d", calendar.Total, len(want))
	}
	for i, id := range want {
		if calendar.Entries[i].AppointmentID != id {
			t.Fatalf("entry %d = %s, want %s", i, calendar.Entries[i].AppointmentID, id)
		}
	}

	entry := calendar.Entries[1]
	if entry.Date != "2024-05-02" || entry.StartTime != "09:00" || entry.EndTime != "09:45" || entry.DurationMinutes != 45 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.PatientName != "Ana Pérez" || entry.PatientDNI != f.patient.DNI || entry.DentistLicense != f.dentist.LicenseNumber {
		t.Fatalf("entry not enriched: %+v", entry)
	}
}

func TestGetCalendarViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, may(6, 10, 0), may(6, 10, 30))
	f.book(t, may(12, 10, 0), may(12, 10, 30))
	f.book(t, may(13, 10, 0), may(13, 10, 30))

	tests := []struct {
		view  dto.CalendarView
		date  time.Time
		total int
		to    string
	}{
		{dto.CalendarViewDay, may(6, 0, 0), 1, "2024-05-07"},
		{dto.CalendarViewWeek, may(6, 0, 0), 2, "2024-05-13"},
		{dto.CalendarViewMonth, may(6, 0, 0), 3, "2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			calendar, err := f.usecase.GetCalendar(ctx, f.dentist.ID, tt.view, tt.date)
			if err != nil {
				t.Fatalf("calendar: %v", err)
			}
			if calendar.Total != tt.total || calendar.To != tt.to {
				t.Fatalf("total = %d to = %s, want %d %s", calendar.Total, calendar.To, tt.total, tt.to)
			}
		})
	}

	_, err := f.usecase.GetCalendar(ctx, f.dentist.ID, dto.CalendarView("year"), may(6, 0, 0))
	assertKind(t, err, ErrInvalidQuery)
}

func TestGetDentistAppointmentsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := testutil.SeedPatient(t, f.db, f.dentist.ID)
	a := f.book(t, may(1, 10, 0), may(1, 10, 30))
	b, err := f.usecase.CreateAppointment(ctx, f.dentist.ID, &dto.CreateAppointmentRequest{
		PatientID: other.ID,
		StartTime: may(2, 10, 0),
		EndTime:   may(2, 10, 30),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.setStatus(t, b.ID, entity.AppointmentStatusConfirmed)

	day := may(2, 15, 0)
	from, to := may(1, 0, 0), may(2, 0, 0)
	confirmed := entity.AppointmentStatusConfirmed

	tests := []struct {
		name  string
		query *dto.DentistAppointmentsQuery
		want  []uuid.UUID
	}{
		{"all", nil, []uuid.UUID{a.ID, b.ID}},
		{"by patient", &dto.DentistAppointmentsQuery{PatientID: &other.ID}, []uuid.UUID{b.ID}},
		{"by date", &dto.DentistAppointmentsQuery{Date: &day}, []uuid.UUID{b.ID}},
		{"by range", &dto.DentistAppointmentsQuery{From: &from, To: &to}, []uuid.UUID{a.ID}},
		{"by status", &dto.DentistAppointmentsQuery{Status: &confirmed}, []uuid.UUID{b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.usecase.GetDentistAppointments(ctx, f.dentist.ID, tt.query)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if list.Total != len(tt.want) {
				t.Fatalf("total = %d, want %d", list.Total, len(tt.want))
			}
			for i, id := range tt.want {
				if list.Appointments[i].ID != id {
					t.Fatalf("item %d = %s, want %s", i, list.Appointments[i].ID, id)
				}
			}
		})
	}

	_, err = f.usecase.GetDentistAppointments(ctx, f.dentist.ID, &dto.DentistAppointmentsQuery{From: &to, To: &from})
	assertKind(t, err, ErrInvalidRange)
}

func TestGetPatientAppointmentsScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := f.book(t, may(1, 10, 0), may(1, 10, 30))
	middle := f.book(t, may(2, 10, 0), may(2, 10, 30))
	late := f.book(t, may(3, 10, 0), may(3, 10, 30))
	f.clock.Set(may(2, 12, 0))

	tests := []struct {
		scope dto.PatientAppointmentScope
		want  []uuid.UUID
	}{
		{dto.PatientScopeAll, []uuid.UUID{early.ID, middle.ID, late.ID}},
		{dto.PatientScopeUpcoming, []uuid.UUID{late.ID}},
		{dto.PatientScopePast, []uuid.UUID{middle.ID, early.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			list, err := f.usecase.GetPatientAppointments(ctx, f.patient.ID, tt.scope)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if list.Total != len(tt.want) {
				t.Fatalf("total = %d, want %d", list.Total, len(tt.want))
			}
			for i, id := range tt.want {
				if list.Appointments[i].ID != id {
					t.Fatalf("item %d = %s, want %s", i, list.Appointments[i].ID, id)
				}
			}
		})
	}

	_, err := f.usecase.GetPatientAppointments(ctx, f.patient.ID, dto.PatientAppointmentScope("soon"))
	assertKind(t, err, ErrInvalidQuery)
}

func TestGetAppointmentByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, may(1, 10, 0), may(1, 10, 30))

	got, err := f.usecase.GetAppointment(ctx, a.ID, f.patient.ID, entity.OwnerPatient)
	if err != nil || got.ID != a.ID {
		t.Fatalf("patient view: %v %v", got, err)
	}
	if got.PatientName != "Ana Pérez" {
		t.Fatalf("patient name = %q", got.PatientName)
	}

	_, err = f.usecase.GetAppointment(ctx, a.ID, uuid.New(), entity.OwnerDentist)
	assertKind(t, err, ErrAppointmentNotFound)
}

func TestCountAppointmentsByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, may(1, 9, 0), may(1, 9, 30))
	done := f.book(t, may(1, 10, 0), may(1, 10, 30))
	f.setStatus(t, done.ID, entity.AppointmentStatusCompleted)
	gone := f.book(t, may(1, 11, 0), may(1, 11, 30))
	if err := f.usecase.CancelAppointment(ctx, gone.ID, f.dentist.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := f.usecase.CountAppointmentsByStatus(ctx, f.dentist.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("total = %d, want 2", stats.Total)
	}
	if stats.Counts[entity.AppointmentStatusScheduled] != 1 || stats.Counts[entity.AppointmentStatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", stats.Counts)
	}
	if stats.Counts[entity.AppointmentStatusCancelled] != 0 {
		t.Fatal("soft-cancelled appointments are not counted")
	}
}
