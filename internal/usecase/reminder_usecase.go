package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/converter"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrReminderNotFound = errors.New("reminder not found")

type ReminderUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateReminderRequest) (*dto.AppointmentReminderResponse, error)
	ListByAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentReminderListResponse, error)
	Due(ctx context.Context, asOf time.Time) (*dto.AppointmentReminderListResponse, error)
	MarkSent(ctx context.Context, id int64) (*dto.AppointmentReminderResponse, error)
	MarkFailed(ctx context.Context, id int64, errorMessage string) (*dto.AppointmentReminderResponse, error)
}

type reminderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	now             func() time.Time
	reminderRepo    repository.AppointmentReminderRepository
	appointmentRepo repository.AppointmentRepository
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reminderRepo repository.AppointmentReminderRepository,
	appointmentRepo repository.AppointmentRepository,
) ReminderUsecase {
	return &reminderUsecase{
		db:              db,
		log:             log,
		now:             time.Now,
		reminderRepo:    reminderRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *reminderUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateReminderRequest) (*dto.AppointmentReminderResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if actor.IsPsychologist() && appointment.PsychologistID != actor.ID {
		return nil, ErrAppointmentNotFound
	}

	reminder := &entity.AppointmentReminder{
		AppointmentID: req.AppointmentID,
		ReminderType:  entity.ReminderType(req.ReminderType),
		ScheduledFor:  req.ScheduledFor,
		Status:        entity.ReminderStatusPending,
		Message:       req.Message,
	}

	if err := u.reminderRepo.Create(u.db.WithContext(ctx), reminder); err != nil {
		u.log.Warnf("Failed to create reminder: %+v", err)
		return nil, err
	}

	u.log.Infof("Reminder created: id=%d, appointment=%s, type=%s", reminder.ID, req.AppointmentID, req.ReminderType)
	return converter.ReminderToResponse(reminder), nil
}

func (u *reminderUsecase) ListByAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentReminderListResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if actor.IsPsychologist() && appointment.PsychologistID != actor.ID {
		return nil, ErrAppointmentNotFound
	}

	reminders, err := u.reminderRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to list reminders for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return &dto.AppointmentReminderListResponse{
		Reminders: converter.RemindersToResponses(reminders),
		Total:     len(reminders),
	}, nil
}

func (u *reminderUsecase) Due(ctx context.Context, asOf time.Time) (*dto.AppointmentReminderListResponse, error) {
	if asOf.IsZero() {
		asOf = u.now()
	}

	reminders, err := u.reminderRepo.FindDue(u.db.WithContext(ctx), asOf)
	if err != nil {
		u.log.Warnf("Failed to list due reminders: %+v", err)
		return nil, err
	}

	return &dto.AppointmentReminderListResponse{
		Reminders: converter.RemindersToResponses(reminders),
		Total:     len(reminders),
	}, nil
}

func (u *reminderUsecase) MarkSent(ctx context.Context, id int64) (*dto.AppointmentReminderResponse, error) {
	db := u.db.WithContext(ctx)

	// Conditional update: zero affected rows on an already-terminal reminder
	// makes the delivery worker's retries idempotent.
	affected, err := u.reminderRepo.MarkSent(db, id, u.now())
	if err != nil {
		u.log.Warnf("Failed to mark reminder %d as sent: %+v", id, err)
		return nil, err
	}

	reminder, err := u.reminderRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, ErrReminderNotFound
	}
	if affected == 0 {
		u.log.Infof("Reminder %d already %s, mark-sent ignored", id, reminder.Status)
	}
	return converter.ReminderToResponse(reminder), nil
}

func (u *reminderUsecase) MarkFailed(ctx context.Context, id int64, errorMessage string) (*dto.AppointmentReminderResponse, error) {
	db := u.db.WithContext(ctx)

	affected, err := u.reminderRepo.MarkFailed(db, id, errorMessage)
	if err != nil {
		u.log.Warnf("Failed to mark reminder %d as failed: %+v", id, err)
		return nil, err
	}

	reminder, err := u.reminderRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, ErrReminderNotFound
	}
	if affected == 0 {
		u.log.Infof("Reminder %d already %s, mark-failed ignored", id, reminder.Status)
	}
	return converter.ReminderToResponse(reminder), nil
}
