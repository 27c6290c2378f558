package repository

import (
	"errors"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	domainRepo "github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentReminderRepository struct{}

func NewAppointmentReminderRepository() domainRepo.AppointmentReminderRepository {
	return &appointmentReminderRepository{}
}

func (r *appointmentReminderRepository) Create(db *gorm.DB, reminder *entity.AppointmentReminder) error {
	return db.Create(reminder).Error
}

func (r *appointmentReminderRepository) FindByID(db *gorm.DB, id int64) (*entity.AppointmentReminder, error) {
	var reminder entity.AppointmentReminder
	err := db.Where("id = ?", id).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *appointmentReminderRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentReminder, error) {
	var reminders []entity.AppointmentReminder
	err := db.Where("appointment_id = ?", appointmentID).
		Order("scheduled_for ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *appointmentReminderRepository) FindDue(db *gorm.DB, asOf time.Time) ([]entity.AppointmentReminder, error) {
	var reminders []entity.AppointmentReminder
	err := db.Preload("Appointment").
		Where("status = ? AND scheduled_for <= ?", entity.ReminderStatusPending, asOf).
		Order("scheduled_for ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// MarkSent conditionally transitions pending -> sent. Affected rows 0 means
// the reminder was already terminal (idempotent double-dispatch guard).
func (r *appointmentReminderRepository) MarkSent(db *gorm.DB, id int64, at time.Time) (int64, error) {
	result := db.Model(&entity.AppointmentReminder{}).
		Where("id = ? AND status = ?", id, entity.ReminderStatusPending).
		Updates(map[string]interface{}{
			"status":  entity.ReminderStatusSent,
			"sent_at": at,
		})
	return result.RowsAffected, result.Error
}

// MarkFailed conditionally transitions pending -> failed.
func (r *appointmentReminderRepository) MarkFailed(db *gorm.DB, id int64, errorMessage string) (int64, error) {
	result := db.Model(&entity.AppointmentReminder{}).
		Where("id = ? AND status = ?", id, entity.ReminderStatusPending).
		Updates(map[string]interface{}{
			"status":        entity.ReminderStatusFailed,
			"error_message": errorMessage,
		})
	return result.RowsAffected, result.Error
}
