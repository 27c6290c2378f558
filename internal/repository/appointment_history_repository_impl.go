package repository

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	domainRepo "github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentHistoryRepository struct{}

func NewAppointmentHistoryRepository() domainRepo.AppointmentHistoryRepository {
	return &appointmentHistoryRepository{}
}

func (r *appointmentHistoryRepository) Create(db *gorm.DB, entry *entity.AppointmentHistory) error {
	return db.Create(entry).Error
}

func (r *appointmentHistoryRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentHistory, error) {
	var entries []entity.AppointmentHistory
	err := db.Preload("CreatedBy").
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
