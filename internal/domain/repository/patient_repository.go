package repository

import (
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientFilter narrows patient listing and statistics queries.
type PatientFilter struct {
	Status         entity.PatientStatus
	Gender         string
	PsychologistID *uuid.UUID
	Search         string // matches name or cedula
	CreatedAfter   *time.Time
}

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindAll(db *gorm.DB, filter *PatientFilter) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Count(db *gorm.DB, filter *PatientFilter) (int64, error)
	SetLastAppointment(db *gorm.DB, id uuid.UUID, at time.Time) error
}
