package entity

import "github.com/google/uuid"

// Dentist is the scheduling read model of a dentist record owned by the CRUD layer
type Dentist struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LicenseNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Active        bool      `gorm:"not null" json:"active"`
}

func (Dentist) TableName() string {
	return "dentists"
}
