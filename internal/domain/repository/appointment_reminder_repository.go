package repository

import (
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentReminderRepository interface {
	Create(db *gorm.DB, reminder *entity.AppointmentReminder) error
	FindByID(db *gorm.DB, id int64) (*entity.AppointmentReminder, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentReminder, error)

	// FindDue returns reminders with status pending and scheduled_for <= asOf,
	// oldest first, for hand-off to the external delivery worker.
	FindDue(db *gorm.DB, asOf time.Time) ([]entity.AppointmentReminder, error)

	// MarkSent and MarkFailed transition a pending reminder exactly once.
	// Returns affected rows: 0 means the reminder was already terminal, which
	// callers treat as an idempotent no-op.
	MarkSent(db *gorm.DB, id int64, at time.Time) (int64, error)
	MarkFailed(db *gorm.DB, id int64, errorMessage string) (int64, error)
}
