package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientStatus represents the administrative status of a patient record.
type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusInactive   PatientStatus = "inactive"
	PatientStatusDischarged PatientStatus = "discharged"
)

// Valid reports whether s is a recognized patient status.
func (s PatientStatus) Valid() bool {
	switch s {
	case PatientStatusActive, PatientStatusInactive, PatientStatusDischarged:
		return true
	}
	return false
}

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Patient represents a clinic patient record.
type Patient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Cedula       string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"cedula"`
	FirstName    string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(100);not null" json:"last_name"`
	BirthDate    time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender       string    `gorm:"type:varchar(10);not null" json:"gender"`
	MaritalStatus string   `gorm:"type:varchar(20)" json:"marital_status,omitempty"`

	Phone   string `gorm:"type:varchar(20);not null" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	EmergencyContactName         string `gorm:"type:varchar(200)" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        string `gorm:"type:varchar(20)" json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship string `gorm:"type:varchar(100)" json:"emergency_contact_relationship,omitempty"`

	MedicalHistory string `gorm:"type:text" json:"medical_history,omitempty"`
	Allergies      string `gorm:"type:text" json:"allergies,omitempty"`
	Medications    string `gorm:"type:text" json:"medications,omitempty"`

	Status                PatientStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	AssignedPsychologistID *uuid.UUID   `gorm:"type:uuid;index" json:"assigned_psychologist_id,omitempty"`
	LastAppointment       *time.Time    `json:"last_appointment,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`

	// Relationships
	AssignedPsychologist *User         `gorm:"foreignKey:AssignedPsychologistID" json:"assigned_psychologist,omitempty"`
	Appointments         []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullName returns the display name of the patient.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
