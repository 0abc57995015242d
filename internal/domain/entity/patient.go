package entity

import "github.com/google/uuid"

// Patient is the scheduling read model of a patient record.
// DentistID is the owning dentist; a patient is only bookable with that dentist.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DentistID uuid.UUID `gorm:"type:uuid;not null;index" json:"dentist_id"`
	DNI       string    `gorm:"column:dni;type:varchar(20);not null;index" json:"dni"`
	Active    bool      `gorm:"not null" json:"active"`
}

func (Patient) TableName() string {
	return "patients"
}

// BelongsTo checks the ownership rule
func (p *Patient) BelongsTo(dentistID uuid.UUID) bool {
	return p.DentistID == dentistID
}

// PersonName is what the user directory returns for an id
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins both parts, skipping empty ones
func (n PersonName) FullName() string {
	switch {
	case n.FirstName == "":
		return n.LastName
	case n.LastName == "":
		return n.FirstName
	default:
		return n.FirstName + " " + n.LastName
	}
}
