package entity

import (
	"time"

	"github.com/google/uuid"
)

// Audit holds bookkeeping fields written by the repository on insert and save.
type Audit struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	UpdatedBy string    `gorm:"column:updated_by;type:varchar(64);not null" json:"updated_by"`
}

// Stamp fills the audit fields for a new record.
func (a *Audit) Stamp(now time.Time, actor string) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.Touch(now, actor)
}

// Touch records a modification.
func (a *Audit) Touch(now time.Time, actor string) {
	a.UpdatedAt = now
	a.UpdatedBy = actor
}

// Appointment is a booked time slot of a patient with a dentist.
// Status and Active are independent: Status is the business state,
// Active controls visibility and is false only after a cancel.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_dentist_start,priority:1" json:"dentist_id"`
	StartTime time.Time         `gorm:"not null;index:idx_appointments_dentist_start,priority:2" json:"start_time"`
	EndTime   time.Time         `gorm:"not null" json:"end_time"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason    string            `gorm:"type:varchar(200)" json:"reason,omitempty"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	Active    bool              `gorm:"not null;index" json:"active"`
	Audit     `gorm:"embedded"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// DurationMinutes is derived from the interval on every call.
func (a *Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// IsTerminal reports whether no further status change is allowed.
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// Cancel is the soft delete: the record leaves every scheduling query
// but stays in the table for audit.
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
	a.Active = false
}
