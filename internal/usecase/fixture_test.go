package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"dentalcare-scheduling/internal/delivery/dto"
	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/repository"
	"dentalcare-scheduling/internal/service"
	"dentalcare-scheduling/internal/testutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeDirectory struct {
	mu    sync.Mutex
	names map[uuid.UUID]entity.PersonName
	err   error
	calls int
}

func (d *fakeDirectory) LookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PersonName, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	result := make(map[uuid.UUID]entity.PersonName)
	for _, id := range ids {
		if name, ok := d.names[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
}

func (n *recordingNotifier) Publish(event service.AppointmentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

type fixture struct {
	db        *gorm.DB
	clock     *testutil.Clock
	directory *fakeDirectory
	notifier  *recordingNotifier
	dentist   *entity.Dentist
	patient   *entity.Patient
	usecase   AppointmentUsecase
	history   AuditLogUsecase
	log       *logrus.Logger
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newFixture starts the clock on 2024-04-01 12:00 UTC, a month before the scenario dates.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, testutil.NewDatabase(t))
}

func newFixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	dentist := testutil.SeedDentist(t, db)
	patient := testutil.SeedPatient(t, db, dentist.ID)

	f := &fixture{
		db:    db,
		clock: testutil.NewClock(time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)),
		directory: &fakeDirectory{names: map[uuid.UUID]entity.PersonName{
			dentist.ID: {FirstName: "Laura", LastName: "Díaz"},
			patient.ID: {FirstName: "Ana", LastName: "Pérez"},
		}},
		notifier: &recordingNotifier{},
		dentist:  dentist,
		patient:  patient,
		log:      quietLogger(),
	}
	f.usecase = f.newUsecase(t)
	f.history = NewAuditLogUsecase(db, f.log, repository.NewAuditLogRepository(), repository.NewAppointmentRepositoryWithClock(f.clock.Now))
	return f
}

// newUsecase builds an independent usecase with its own lock table on the shared database,
// as a second service instance would have.
func (f *fixture) newUsecase(t *testing.T) AppointmentUsecase {
	t.Helper()

	appointmentRepo := repository.NewAppointmentRepositoryWithClock(f.clock.Now)
	dentistRepo := repository.NewDentistRepository()
	patientRepo := repository.NewPatientRepository()

	enricher := service.NewEnricher(f.db, f.log, patientRepo, dentistRepo, f.directory, time.Second)
	locks := service.NewDentistLocks(f.log)
	t.Cleanup(locks.Stop)

	return NewAppointmentUsecase(
		f.db,
		f.log,
		appointmentRepo,
		dentistRepo,
		patientRepo,
		service.NewAuditService(f.log, repository.NewAuditLogRepository(), f.clock.Now),
		enricher,
		service.NewCalendarProjector(enricher, time.UTC),
		f.notifier,
		locks,
		time.Minute,
		f.clock.Now,
	)
}

func may(day, hour, minute int) time.Time {
	return time.Date(2024, time.May, day, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) request(start, end time.Time) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: start,
		EndTime:   end,
		Reason:    "checkup",
	}
}

func (f *fixture) book(t *testing.T, start, end time.Time) *dto.AppointmentResponse {
	t.Helper()
	created, err := f.usecase.CreateAppointment(context.Background(), f.dentist.ID, f.request(start, end))
	if err != nil {
		t.Fatalf("create %s - %s: %v", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return created
}

func (f *fixture) setStatus(t *testing.T, id uuid.UUID, status entity.AppointmentStatus) {
	t.Helper()
	_, err := f.usecase.UpdateAppointmentStatus(context.Background(), id, f.dentist.ID, &dto.UpdateAppointmentStatusRequest{Status: status})
	if err != nil {
		t.Fatalf("set status %s: %v", status, err)
	}
}

func assertKind(t *testing.T, err error, want *SchedulingError) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %s error, got %v", want.Kind, err)
	}
}
