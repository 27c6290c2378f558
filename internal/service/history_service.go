package service

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HistoryRecorder appends entries to the per-appointment audit ledger.
//
// Recording is best-effort: a recorder failure is logged and never escalated,
// so the primary mutation is not rolled back when only the audit write fails.
type HistoryRecorder interface {
	Record(db *gorm.DB, appointmentID uuid.UUID, action entity.HistoryAction, description string, previous, next entity.Snapshot, actorID uuid.UUID)
}

type historyRecorder struct {
	log         *logrus.Logger
	historyRepo repository.AppointmentHistoryRepository
}

func NewHistoryRecorder(log *logrus.Logger, historyRepo repository.AppointmentHistoryRepository) HistoryRecorder {
	return &historyRecorder{
		log:         log,
		historyRepo: historyRepo,
	}
}

func (s *historyRecorder) Record(db *gorm.DB, appointmentID uuid.UUID, action entity.HistoryAction, description string, previous, next entity.Snapshot, actorID uuid.UUID) {
	entry := &entity.AppointmentHistory{
		AppointmentID: appointmentID,
		Action:        action,
		Description:   description,
		PreviousData:  previous,
		NewData:       next,
		CreatedByID:   &actorID,
	}

	if err := s.historyRepo.Create(db, entry); err != nil {
		s.log.Errorf("Failed to record %s history for appointment %s: %+v", action, appointmentID, err)
	}
}
