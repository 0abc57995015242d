package testutil

import (
	"io"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"dentalcare-scheduling/config"
	"dentalcare-scheduling/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewPostgresDatabase connects to DENTALCARE_TEST_DATABASE_URL and applies the migrations.
// The test is skipped when the variable is unset. Callers remove the rows they create.
func NewPostgresDatabase(t testing.TB) *gorm.DB {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("DENTALCARE_TEST_DATABASE_URL"))
	if raw == "" {
		t.Skip("DENTALCARE_TEST_DATABASE_URL not set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse database url: %v", err)
	}

	password, _ := u.User.Password()
	cfg := config.DBConfig{
		Host:            u.Hostname(),
		Port:            u.Port(),
		User:            u.User.Username(),
		Password:        password,
		Name:            strings.TrimPrefix(u.Path, "/"),
		SSLMode:         u.Query().Get("sslmode"),
		MaxOpenConns:    16,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Minute,
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	if err := database.RunMigrations(cfg, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.NewPostgresConnection(cfg, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// PurgeDentist removes a seeded dentist with its patients, appointments and their audit rows
func PurgeDentist(t testing.TB, db *gorm.DB, dentistID uuid.UUID) {
	t.Helper()

	steps := []string{
		"DELETE FROM audit_logs WHERE entity_id IN (SELECT id FROM appointments WHERE dentist_id = ?)",
		"DELETE FROM appointments WHERE dentist_id = ?",
		"DELETE FROM patients WHERE dentist_id = ?",
		"DELETE FROM dentists WHERE id = ?",
	}
	for _, stmt := range steps {
		if err := db.Exec(stmt, dentistID).Error; err != nil {
			t.Errorf("purge dentist: %v", err)
			return
		}
	}
}
