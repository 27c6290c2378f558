package repository

import (
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByIDWithChildren(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)

	// FindActiveByPsychologistAndDate returns the appointments that still hold
	// a calendar slot (scheduled, confirmed, in_progress) for one psychologist
	// on one date, ordered by time. excludeID skips one appointment, used when
	// validating an update against itself.
	FindActiveByPsychologistAndDate(db *gorm.DB, psychologistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error)

	// FindUpcoming returns appointments strictly in the future relative to
	// today+nowClock, soonest first, capped at limit.
	FindUpcoming(db *gorm.DB, psychologistID *uuid.UUID, today time.Time, nowClock string, limit int) ([]entity.Appointment, error)

	Update(db *gorm.DB, appointment *entity.Appointment) error
	Count(db *gorm.DB, filter *entity.AppointmentFilter) (int64, error)
}
