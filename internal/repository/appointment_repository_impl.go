package repository

import (
	"errors"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	domainRepo "github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Psychologist").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDWithChildren(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Psychologist").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reminders", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_for ASC")
		}).
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func applyAppointmentFilter(query *gorm.DB, filter *entity.AppointmentFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.PsychologistID != nil {
		query = query.Where("psychologist_id = ?", *filter.PsychologistID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("appointment_type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	return query
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := applyAppointmentFilter(db.Model(&entity.Appointment{}), filter)
	err := query.Preload("Patient").Preload("Psychologist").
		Order("date ASC, time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByPsychologistAndDate(db *gorm.DB, psychologistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.
		Where("psychologist_id = ?", psychologistID).
		Where("date = ?", date).
		Where("status IN ?", entity.ActiveAppointmentStatuses)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Order("time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcoming(db *gorm.DB, psychologistID *uuid.UUID, today time.Time, nowClock string, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Model(&entity.Appointment{}).
		Where("date > ? OR (date = ? AND time >= ?)", today, today, nowClock).
		Where("status IN ?", entity.ActiveAppointmentStatuses)
	if psychologistID != nil {
		query = query.Where("psychologist_id = ?", *psychologistID)
	}
	err := query.Preload("Patient").Preload("Psychologist").
		Order("date ASC, time ASC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Psychologist", "History", "Reminders").Save(appointment).Error
}

func (r *appointmentRepository) Count(db *gorm.DB, filter *entity.AppointmentFilter) (int64, error) {
	var count int64
	err := applyAppointmentFilter(db.Model(&entity.Appointment{}), filter).Count(&count).Error
	return count, err
}
