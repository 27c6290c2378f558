package repository

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentHistoryRepository is append-only: entries are created and read,
// never updated or deleted.
type AppointmentHistoryRepository interface {
	Create(db *gorm.DB, entry *entity.AppointmentHistory) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentHistory, error)
}
