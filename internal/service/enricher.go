package service

import (
	"context"
	"time"

	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientDisplay struct {
	FullName string
	DNI      string
}

type DentistDisplay struct {
	FullName      string
	LicenseNumber string
}

// DisplayIndex holds the display data of every person referenced by a result set.
// Missing entries mean the data could not be resolved.
type DisplayIndex struct {
	Patients map[uuid.UUID]PatientDisplay
	Dentists map[uuid.UUID]DentistDisplay
}

func (i *DisplayIndex) Patient(id uuid.UUID) PatientDisplay {
	if i == nil {
		return PatientDisplay{}
	}
	return i.Patients[id]
}

func (i *DisplayIndex) Dentist(id uuid.UUID) DentistDisplay {
	if i == nil {
		return DentistDisplay{}
	}
	return i.Dentists[id]
}

// Enricher resolves display data for appointments with one query per table
// and one batched directory call. It never fails: errors are logged and the
// affected fields stay empty.
type Enricher struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	dentistRepo repository.DentistRepository
	directory   Directory
	timeout     time.Duration
}

func NewEnricher(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	dentistRepo repository.DentistRepository,
	directory Directory,
	timeout time.Duration,
) *Enricher {
	return &Enricher{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		dentistRepo: dentistRepo,
		directory:   directory,
		timeout:     timeout,
	}
}

func (e *Enricher) Resolve(ctx context.Context, appointments []entity.Appointment) *DisplayIndex {
	index := &DisplayIndex{
		Patients: make(map[uuid.UUID]PatientDisplay),
		Dentists: make(map[uuid.UUID]DentistDisplay),
	}
	if len(appointments) == 0 {
		return index
	}

	patientIDs := distinct(appointments, func(a *entity.Appointment) uuid.UUID { return a.PatientID })
	dentistIDs := distinct(appointments, func(a *entity.Appointment) uuid.UUID { return a.DentistID })

	db := e.db.WithContext(ctx)
	patients, err := e.patientRepo.FindByIDs(db, patientIDs)
	if err != nil {
		e.log.Warnf("Failed to load patients for enrichment: %+v", err)
	}
	for _, p := range patients {
		index.Patients[p.ID] = PatientDisplay{DNI: p.DNI}
	}

	dentists, err := e.dentistRepo.FindByIDs(db, dentistIDs)
	if err != nil {
		e.log.Warnf("Failed to load dentists for enrichment: %+v", err)
	}
	for _, d := range dentists {
		index.Dentists[d.ID] = DentistDisplay{LicenseNumber: d.LicenseNumber}
	}

	if e.directory == nil {
		return index
	}

	lookupCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ids := append(append([]uuid.UUID{}, patientIDs...), dentistIDs...)
	names, err := e.directory.LookupNames(lookupCtx, ids)
	if err != nil {
		e.log.Warnf("Directory lookup degraded for %d ids: %+v", len(ids), err)
	}
	for _, id := range patientIDs {
		if name, ok := names[id]; ok {
			display := index.Patients[id]
			display.FullName = name.FullName()
			index.Patients[id] = display
		}
	}
	for _, id := range dentistIDs {
		if name, ok := names[id]; ok {
			display := index.Dentists[id]
			display.FullName = name.FullName()
			index.Dentists[id] = display
		}
	}

	return index
}

func distinct(appointments []entity.Appointment, key func(*entity.Appointment) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(appointments))
	ids := make([]uuid.UUID, 0, len(appointments))
	for i := range appointments {
		id := key(&appointments[i])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
