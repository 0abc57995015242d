package repository

import (
	"errors"
	"testing"
	"time"

	"dentalcare-scheduling/internal/domain/entity"
	domainRepo "dentalcare-scheduling/internal/domain/repository"
	"dentalcare-scheduling/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var may1 = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

func slot(day, hour, minute, length int) (time.Time, time.Time) {
	start := may1.AddDate(0, 0, day-1).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return start, start.Add(time.Duration(length) * time.Minute)
}

type fixture struct {
	db      *gorm.DB
	repo    domainRepo.AppointmentRepository
	dentist *entity.Dentist
	patient *entity.Patient
	clock   *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDatabase(t)
	dentist := testutil.SeedDentist(t, db)
	clock := testutil.NewClock(time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC))
	return &fixture{
		db:      db,
		repo:    NewAppointmentRepositoryWithClock(clock.Now),
		dentist: dentist,
		patient: testutil.SeedPatient(t, db, dentist.ID),
		clock:   clock,
	}
}

func (f *fixture) insert(t *testing.T, start, end time.Time, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()
	appointment := &entity.Appointment{
		DentistID: f.dentist.ID,
		PatientID: f.patient.ID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Active:    true,
	}
	if err := f.repo.Create(f.db, appointment, "tester"); err != nil {
		t.Fatalf("create: %v", err)
	}
	return appointment
}

func TestAppointmentRepositoryCreateStampsAudit(t *testing.T) {
	f := newFixture(t)
	start, end := slot(1, 10, 0, 30)

	created := f.insert(t, start, end, entity.AppointmentStatusScheduled)
	if created.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if !created.CreatedAt.Equal(f.clock.Now()) || created.CreatedBy != "tester" || created.UpdatedBy != "tester" {
		t.Fatalf("unexpected audit fields: %+v", created.Audit)
	}

	f.clock.Advance(time.Hour)
	created.Reason = "checkup"
	if err := f.repo.Save(f.db, created, "editor"); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := f.repo.FindActiveByID(f.db, created.ID, f.dentist.ID, entity.OwnerDentist)
	if err != nil || loaded == nil {
		t.Fatalf("find: %v %v", loaded, err)
	}
	if loaded.CreatedBy != "tester" || loaded.UpdatedBy != "editor" {
		t.Fatalf("unexpected actors: %+v", loaded.Audit)
	}
	if !loaded.UpdatedAt.Equal(f.clock.Now()) {
		t.Fatalf("updated_at = %v, want %v", loaded.UpdatedAt, f.clock.Now())
	}
	if loaded.Reason != "checkup" {
		t.Fatalf("reason = %q", loaded.Reason)
	}
}

func TestAppointmentRepositoryCreateRejectsForeignPatient(t *testing.T) {
	f := newFixture(t)
	otherDentist := testutil.SeedDentist(t, f.db)
	foreign := testutil.SeedPatient(t, f.db, otherDentist.ID)
	start, end := slot(1, 10, 0, 30)

	err := f.repo.Create(f.db, &entity.Appointment{
		DentistID: f.dentist.ID,
		PatientID: foreign.ID,
		StartTime: start,
		EndTime:   end,
		Status:    entity.AppointmentStatusScheduled,
		Active:    true,
	}, "tester")
	if !errors.Is(err, domainRepo.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestAppointmentRepositoryFindActiveByIDScopesOwner(t *testing.T) {
	f := newFixture(t)
	start, end := slot(1, 10, 0, 30)
	created := f.insert(t, start, end, entity.AppointmentStatusScheduled)

	tests := []struct {
		name    string
		ownerID uuid.UUID
		role    entity.OwnerRole
		found   bool
	}{
		{"dentist", f.dentist.ID, entity.OwnerDentist, true},
		{"patient", f.patient.ID, entity.OwnerPatient, true},
		{"patient id as dentist", f.patient.ID, entity.OwnerDentist, false},
		{"stranger", uuid.New(), entity.OwnerDentist, false},
		{"unknown role", f.dentist.ID, entity.OwnerRole("NURSE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.FindActiveByID(f.db, created.ID, tt.ownerID, tt.role)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got != nil) != tt.found {
				t.Fatalf("found = %v, want %v", got != nil, tt.found)
			}
		})
	}

	created.Cancel()
	if err := f.repo.Save(f.db, created, "tester"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := f.repo.FindActiveByID(f.db, created.ID, f.dentist.ID, entity.OwnerDentist)
	if err != nil || got != nil {
		t.Fatalf("cancelled appointment must not be found, got %v %v", got, err)
	}
}

func TestAppointmentRepositoryFindOverlapping(t *testing.T) {
	f := newFixture(t)
	start, end := slot(1, 10, 0, 30)
	booked := f.insert(t, start, end, entity.AppointmentStatusScheduled)
	cancelledStart, cancelledEnd := slot(1, 11, 0, 30)
	f.insert(t, cancelledStart, cancelledEnd, entity.AppointmentStatusCancelled)
	noShowStart, noShowEnd := slot(1, 12, 0, 30)
	f.insert(t, noShowStart, noShowEnd, entity.AppointmentStatusNoShow)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		excludeID uuid.UUID
		want      int
	}{
		{"same window", start, end, uuid.Nil, 1},
		{"touching before", start.Add(-30 * time.Minute), start, uuid.Nil, 0},
		{"touching after", end, end.Add(30 * time.Minute), uuid.Nil, 0},
		{"self excluded", start, end, booked.ID, 0},
		{"cancelled slot free", cancelledStart, cancelledEnd, uuid.Nil, 0},
		{"no show slot free", noShowStart, noShowEnd, uuid.Nil, 0},
		{"spanning all", start.Add(-time.Hour), noShowEnd.Add(time.Hour), uuid.Nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.FindOverlapping(f.db, f.dentist.ID, tt.start, tt.end, tt.excludeID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	other, err := f.repo.FindOverlapping(f.db, uuid.New(), start, end, uuid.Nil)
	if err != nil || len(other) != 0 {
		t.Fatalf("another dentist must see a free slot, got %d %v", len(other), err)
	}
}

func TestAppointmentRepositoryList(t *testing.T) {
	f := newFixture(t)
	aprilStart, aprilEnd := time.Date(2024, time.April, 30, 23, 0, 0, 0, time.UTC), time.Date(2024, time.April, 30, 23, 30, 0, 0, time.UTC)
	f.insert(t, aprilStart, aprilEnd, entity.AppointmentStatusScheduled)
	s2, e2 := slot(2, 9, 0, 30)
	second := f.insert(t, s2, e2, entity.AppointmentStatusConfirmed)
	s1, e1 := slot(1, 9, 0, 30)
	first := f.insert(t, s1, e1, entity.AppointmentStatusScheduled)
	s3, e3 := slot(3, 9, 0, 30)
	removed := f.insert(t, s3, e3, entity.AppointmentStatusScheduled)
	removed.Cancel()
	if err := f.repo.Save(f.db, removed, "tester"); err != nil {
		t.Fatalf("save: %v", err)
	}

	from := may1
	before := may1.AddDate(0, 1, 0)
	got, err := f.repo.List(f.db, &entity.AppointmentFilter{DentistID: &f.dentist.ID, StartFrom: &from, StartBefore: &before})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("unexpected month listing: %+v", got)
	}

	desc, err := f.repo.List(f.db, &entity.AppointmentFilter{PatientID: &f.patient.ID, Descending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(desc) != 3 || desc[0].ID != second.ID {
		t.Fatalf("unexpected descending listing: %+v", desc)
	}

	confirmed := entity.AppointmentStatusConfirmed
	byStatus, err := f.repo.List(f.db, &entity.AppointmentFilter{DentistID: &f.dentist.ID, Status: &confirmed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != second.ID {
		t.Fatalf("unexpected status listing: %+v", byStatus)
	}
}

func TestAppointmentRepositoryCountByStatus(t *testing.T) {
	f := newFixture(t)
	s1, e1 := slot(1, 9, 0, 30)
	f.insert(t, s1, e1, entity.AppointmentStatusScheduled)
	s2, e2 := slot(1, 10, 0, 30)
	f.insert(t, s2, e2, entity.AppointmentStatusScheduled)
	s3, e3 := slot(1, 11, 0, 30)
	f.insert(t, s3, e3, entity.AppointmentStatusCompleted)

	counts, err := f.repo.CountByStatus(f.db, f.dentist.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[entity.AppointmentStatusScheduled] != 2 || counts[entity.AppointmentStatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if _, ok := counts[entity.AppointmentStatusNoShow]; !ok {
		t.Fatal("every status must be present in the result")
	}
}

func TestAppointmentRepositoryLockDentistIsNoopOnSQLite(t *testing.T) {
	f := newFixture(t)
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.repo.LockDentist(tx, f.dentist.ID)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
