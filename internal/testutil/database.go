// Package testutil provides an in-memory database and a controllable clock for package tests.
package testutil

import (
	"fmt"
	"testing"

	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a private in-memory SQLite database with the scheduling schema.
// A single connection keeps every goroutine on the same database and serializes transactions.
func NewDatabase(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entity.Dentist{}, &entity.Patient{}, &entity.Appointment{}, &entity.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// SeedDentist inserts an active dentist
func SeedDentist(t testing.TB, db *gorm.DB) *entity.Dentist {
	t.Helper()

	dentist := &entity.Dentist{
		ID:            uuid.New(),
		LicenseNumber: "MP-" + uuid.NewString()[:8],
		Active:        true,
	}
	if err := db.Create(dentist).Error; err != nil {
		t.Fatalf("seed dentist: %v", err)
	}
	return dentist
}

// SeedPatient inserts an active patient owned by dentistID
func SeedPatient(t testing.TB, db *gorm.DB, dentistID uuid.UUID) *entity.Patient {
	t.Helper()

	patient := &entity.Patient{
		ID:        uuid.New(),
		DentistID: dentistID,
		DNI:       uuid.NewString()[:8],
		Active:    true,
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return patient
}

// Deactivate flips the active flag of a seeded record
func Deactivate(t testing.TB, db *gorm.DB, model interface{}, id uuid.UUID) {
	t.Helper()

	if err := db.Model(model).Where("id = ?", id).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
}
