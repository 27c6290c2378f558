package repository

import (
	"errors"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	domainRepo "github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Preload("AssignedPsychologist").Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func applyPatientFilter(query *gorm.DB, filter *domainRepo.PatientFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.PsychologistID != nil {
		query = query.Where("assigned_psychologist_id = ?", *filter.PsychologistID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR cedula ILIKE ?", pattern, pattern, pattern)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	return query
}

func (r *patientRepository) FindAll(db *gorm.DB, filter *domainRepo.PatientFilter) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := applyPatientFilter(db.Model(&entity.Patient{}), filter)
	err := query.Preload("AssignedPsychologist").Order("created_at DESC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit("AssignedPsychologist", "Appointments").Save(patient).Error
}

func (r *patientRepository) Count(db *gorm.DB, filter *domainRepo.PatientFilter) (int64, error) {
	var count int64
	err := applyPatientFilter(db.Model(&entity.Patient{}), filter).Count(&count).Error
	return count, err
}

func (r *patientRepository) SetLastAppointment(db *gorm.DB, id uuid.UUID, at time.Time) error {
	return db.Model(&entity.Patient{}).
		Where("id = ?", id).
		Update("last_appointment", at).Error
}
