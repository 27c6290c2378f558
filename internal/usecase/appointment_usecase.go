package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/converter"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"
	"github.com/vitaliscar/Proyecto-PRM/internal/service"
	"github.com/vitaliscar/Proyecto-PRM/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrPsychologistNotFound  = errors.New("psychologist not found")
	ErrPsychologistRequired  = errors.New("psychologist is required")
	ErrInvalidDateFormat     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidFilter         = errors.New("invalid filter parameter")
	ErrInvalidTimeFormat     = errors.New("invalid time format, use HH:MM")
	ErrPastDateTime          = errors.New("cannot schedule an appointment in the past")
	ErrScheduleConflict      = errors.New("psychologist already has an appointment in this time range")
	ErrInvalidStatus         = errors.New("invalid appointment status")
	ErrCannotCancel          = errors.New("appointment cannot be cancelled in its current status")
	ErrCannotReschedule      = errors.New("appointment cannot be rescheduled in its current status")
	ErrCannotComplete        = errors.New("only in-progress appointments can be completed")
)

// Working window for slot generation: 09:00-18:00, fixed 60-minute slots.
const (
	workDayStartMinute = 9 * 60
	workDayEndMinute   = 18 * 60
	slotMinutes        = 60

	upcomingLimit = 10
)

type AppointmentUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, actor entity.Actor, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error)
	Today(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
	Upcoming(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, newStatus string) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, id uuid.UUID, reason string) error
	Reschedule(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.CompleteAppointmentRequest) error
	History(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentHistoryListResponse, error)
	AvailableSlots(ctx context.Context, psychologistID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	Statistics(ctx context.Context, actor entity.Actor) (*dto.AppointmentStatisticsResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	now             func() time.Time
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	historyRepo     repository.AppointmentHistoryRepository
	history         service.HistoryRecorder
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	historyRepo repository.AppointmentHistoryRepository,
	history service.HistoryRecorder,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		now:             time.Now,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		historyRepo:     historyRepo,
		history:         history,
	}
}

// hasConflict reports whether [startMinute, endMinute) on date intersects any
// appointment still holding a slot for the psychologist. Standard half-open
// overlap; excludeID skips the appointment being updated.
func (u *appointmentUsecase) hasConflict(db *gorm.DB, psychologistID uuid.UUID, date time.Time, startMinute, endMinute int, excludeID *uuid.UUID) (bool, error) {
	existing, err := u.appointmentRepo.FindActiveByPsychologistAndDate(db, psychologistID, date, excludeID)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if existing[i].OverlapsWindow(startMinute, endMinute) {
			return true, nil
		}
	}
	return false, nil
}

// resolvePsychologist validates the target psychologist, defaulting to the
// requesting actor when that actor is a psychologist and none was supplied.
func (u *appointmentUsecase) resolvePsychologist(db *gorm.DB, actor entity.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	id := uuid.Nil
	if requested != nil {
		id = *requested
	} else if actor.IsPsychologist() {
		id = actor.ID
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrPsychologistRequired
	}

	psychologist, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find psychologist %s: %+v", id, err)
		return uuid.Nil, err
	}
	if psychologist == nil || psychologist.Role != entity.RolePsychologist || !psychologist.IsActive {
		return uuid.Nil, ErrPsychologistNotFound
	}
	return id, nil
}

// loadVisible loads an appointment enforcing psychologist-scoped visibility:
// a psychologist can only reach their own appointments.
func (u *appointmentUsecase) loadVisible(db *gorm.DB, actor entity.Actor, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if actor.IsPsychologist() && appointment.PsychologistID != actor.ID {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	startMinute, err := timeutil.ParseClock(req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	duration := req.Duration
	if duration == 0 {
		duration = 60
	}

	appointmentType := entity.AppointmentType(req.AppointmentType)
	if appointmentType == "" {
		appointmentType = entity.AppointmentTypeInPerson
	}
	priority := entity.AppointmentPriority(req.Priority)
	if priority == "" {
		priority = entity.PriorityNormal
	}

	// Validated once, at submission: the slot must not be strictly in the past.
	startsAt, err := timeutil.Combine(date, req.Time, u.loc)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if startsAt.Before(u.now()) {
		return nil, ErrPastDateTime
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	psychologistID, err := u.resolvePsychologist(u.db.WithContext(ctx), actor, req.PsychologistID)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:       req.PatientID,
		PsychologistID:  psychologistID,
		Date:            date,
		Time:            timeutil.FormatClock(startMinute),
		Duration:        duration,
		AppointmentType: appointmentType,
		Status:          entity.AppointmentStatusScheduled,
		Priority:        priority,
		Room:            req.Room,
		VirtualLink:     req.VirtualLink,
		Reason:          req.Reason,
		Notes:           req.Notes,
		PrivateNotes:    req.PrivateNotes,
		CreatedByID:     &actor.ID,
	}

	// Conflict check and insert run in one transaction; the partial unique
	// index on (psychologist, date, time) closes the remaining race window.
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	conflict, err := u.hasConflict(tx, psychologistID, date, startMinute, startMinute+duration, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrScheduleConflict
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isUniqueViolation(err, "idx_appointments_slot") {
			return nil, ErrScheduleConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment creation: %+v", err)
		return nil, err
	}

	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionCreated,
		"Appointment created", nil, createSnapshot(appointment), actor.ID)

	u.log.Infof("Appointment created: id=%s, psychologist=%s, date=%s %s",
		appointment.ID, psychologistID, req.Date, appointment.Time)

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		return converter.AppointmentToResponse(appointment, actor.CanViewPrivateNotes()), nil
	}
	return converter.AppointmentToResponse(full, actor.CanViewPrivateNotes()), nil
}

func (u *appointmentUsecase) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByIDWithChildren(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if actor.IsPsychologist() && appointment.PsychologistID != actor.ID {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment, actor.CanViewPrivateNotes()), nil
}

// scopedFilter narrows a filter to the appointments visible to the actor.
func scopedFilter(actor entity.Actor, filter *entity.AppointmentFilter) *entity.AppointmentFilter {
	if filter == nil {
		filter = &entity.AppointmentFilter{}
	}
	if actor.IsPsychologist() {
		id := actor.ID
		filter.PsychologistID = &id
	}
	return filter
}

func (u *appointmentUsecase) List(ctx context.Context, actor entity.Actor, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{}
	if query != nil {
		filter.Status = entity.AppointmentStatus(query.Status)
		filter.Type = entity.AppointmentType(query.Type)
		filter.Priority = entity.AppointmentPriority(query.Priority)
		if query.PsychologistID != "" {
			id, err := uuid.Parse(query.PsychologistID)
			if err != nil {
				return nil, ErrInvalidFilter
			}
			filter.PsychologistID = &id
		}
		if query.PatientID != "" {
			id, err := uuid.Parse(query.PatientID)
			if err != nil {
				return nil, ErrInvalidFilter
			}
			filter.PatientID = &id
		}
		if query.StartDate != "" {
			start, err := timeutil.ParseDate(query.StartDate)
			if err != nil {
				return nil, ErrInvalidDateFormat
			}
			filter.StartDate = &start
		}
		if query.EndDate != "" {
			end, err := timeutil.ParseDate(query.EndDate)
			if err != nil {
				return nil, ErrInvalidDateFormat
			}
			filter.EndDate = &end
		}
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), scopedFilter(actor, filter))
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, actor.CanViewPrivateNotes()),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) Today(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	today := timeutil.NormalizeDate(u.now().In(u.loc))
	filter := scopedFilter(actor, &entity.AppointmentFilter{StartDate: &today, EndDate: &today})

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list today's appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, actor.CanViewPrivateNotes()),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) Upcoming(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	now := u.now().In(u.loc)
	today := timeutil.NormalizeDate(now)
	nowClock := timeutil.FormatClock(now.Hour()*60 + now.Minute())

	var psychologistID *uuid.UUID
	if actor.IsPsychologist() {
		id := actor.ID
		psychologistID = &id
	}

	appointments, err := u.appointmentRepo.FindUpcoming(u.db.WithContext(ctx), psychologistID, today, nowClock, upcomingLimit)
	if err != nil {
		u.log.Warnf("Failed to list upcoming appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, actor.CanViewPrivateNotes()),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.loadVisible(tx, actor, id)
	if err != nil {
		return nil, err
	}

	// Fixed snapshot captured before any change is applied.
	previous := trackedSnapshot(appointment)

	rescheduled := false
	if req.Date != nil {
		date, err := timeutil.ParseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		appointment.Date = date
		rescheduled = true
	}
	if req.Time != nil {
		minute, err := timeutil.ParseClock(*req.Time)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		appointment.Time = timeutil.FormatClock(minute)
		rescheduled = true
	}
	if req.Duration != nil {
		appointment.Duration = *req.Duration
		rescheduled = true
	}
	if req.AppointmentType != nil {
		appointment.AppointmentType = entity.AppointmentType(*req.AppointmentType)
	}
	if req.Priority != nil {
		appointment.Priority = entity.AppointmentPriority(*req.Priority)
	}
	if req.Room != nil {
		appointment.Room = *req.Room
	}
	if req.VirtualLink != nil {
		appointment.VirtualLink = *req.VirtualLink
	}
	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.PrivateNotes != nil {
		appointment.PrivateNotes = *req.PrivateNotes
	}

	if rescheduled {
		startMinute, endMinute, err := appointment.Interval()
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		startsAt, err := appointment.StartsAt(u.loc)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if startsAt.Before(u.now()) {
			return nil, ErrPastDateTime
		}
		conflict, err := u.hasConflict(tx, appointment.PsychologistID, appointment.Date, startMinute, endMinute, &appointment.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrScheduleConflict
		}
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isUniqueViolation(err, "idx_appointments_slot") {
			return nil, ErrScheduleConflict
		}
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment update: %+v", err)
		return nil, err
	}

	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionUpdated,
		"Appointment updated", previous, trackedSnapshot(appointment), actor.ID)

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		return converter.AppointmentToResponse(appointment, actor.CanViewPrivateNotes()), nil
	}
	return converter.AppointmentToResponse(full, actor.CanViewPrivateNotes()), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, newStatus string) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(newStatus)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.loadVisible(tx, actor, id)
	if err != nil {
		return nil, err
	}

	oldStatus := appointment.Status
	appointment.Status = status

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isUniqueViolation(err, "idx_appointments_slot") {
			return nil, ErrScheduleConflict
		}
		u.log.Warnf("Failed to update appointment status %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status update: %+v", err)
		return nil, err
	}

	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionUpdated,
		fmt.Sprintf("Status changed from %s to %s", oldStatus, status),
		entity.Snapshot{"status": string(oldStatus)},
		entity.Snapshot{"status": string(status)},
		actor.ID)

	return converter.AppointmentToResponse(appointment, actor.CanViewPrivateNotes()), nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, id uuid.UUID, reason string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.loadVisible(tx, actor, id)
	if err != nil {
		return err
	}

	if !appointment.CanBeCancelled() {
		return ErrCannotCancel
	}

	oldStatus := appointment.Status
	appointment.Status = entity.AppointmentStatusCancelled

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation: %+v", err)
		return err
	}

	description := "Appointment cancelled"
	if reason != "" {
		description = fmt.Sprintf("Appointment cancelled. Reason: %s", reason)
	}
	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionCancelled,
		description,
		entity.Snapshot{"status": string(oldStatus)},
		entity.Snapshot{"status": string(entity.AppointmentStatusCancelled)},
		actor.ID)

	u.log.Infof("Appointment cancelled: id=%s", id)
	return nil
}

func (u *appointmentUsecase) Reschedule(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	newDate, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	startMinute, err := timeutil.ParseClock(req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.loadVisible(tx, actor, id)
	if err != nil {
		return nil, err
	}

	if !appointment.CanBeRescheduled() {
		return nil, ErrCannotReschedule
	}

	startsAt, err := timeutil.Combine(newDate, req.Time, u.loc)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if startsAt.Before(u.now()) {
		return nil, ErrPastDateTime
	}

	conflict, err := u.hasConflict(tx, appointment.PsychologistID, newDate, startMinute, startMinute+appointment.Duration, &appointment.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrScheduleConflict
	}

	previous := entity.Snapshot{
		"date": appointment.Date.Format(timeutil.DateLayout),
		"time": appointment.Time,
	}

	appointment.Date = newDate
	appointment.Time = timeutil.FormatClock(startMinute)

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isUniqueViolation(err, "idx_appointments_slot") {
			return nil, ErrScheduleConflict
		}
		u.log.Warnf("Failed to reschedule appointment %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit reschedule: %+v", err)
		return nil, err
	}

	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionRescheduled,
		"Appointment rescheduled",
		previous,
		entity.Snapshot{
			"date": appointment.Date.Format(timeutil.DateLayout),
			"time": appointment.Time,
		},
		actor.ID)

	u.log.Infof("Appointment rescheduled: id=%s, date=%s %s", id, req.Date, appointment.Time)

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		return converter.AppointmentToResponse(appointment, actor.CanViewPrivateNotes()), nil
	}
	return converter.AppointmentToResponse(full, actor.CanViewPrivateNotes()), nil
}

func (u *appointmentUsecase) Complete(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.CompleteAppointmentRequest) error {
	var followupDate *time.Time
	if req.FollowupDate != "" {
		parsed, err := timeutil.ParseDate(req.FollowupDate)
		if err != nil {
			return ErrInvalidDateFormat
		}
		followupDate = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.loadVisible(tx, actor, id)
	if err != nil {
		return err
	}

	if !appointment.CanBeCompleted() {
		return ErrCannotComplete
	}

	oldStatus := appointment.Status
	completedAt := u.now()

	appointment.Status = entity.AppointmentStatusCompleted
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}
	if req.PrivateNotes != "" {
		appointment.PrivateNotes = req.PrivateNotes
	}
	appointment.RequiresFollowup = req.RequiresFollowup
	if followupDate != nil {
		appointment.FollowupDate = followupDate
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", id, err)
		return err
	}

	// The patient aggregate update is part of the primary mutation.
	if err := u.patientRepo.SetLastAppointment(tx, appointment.PatientID, completedAt); err != nil {
		u.log.Warnf("Failed to update patient last appointment: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit completion: %+v", err)
		return err
	}

	u.history.Record(u.db.WithContext(ctx), appointment.ID, entity.HistoryActionCompleted,
		"Appointment completed",
		entity.Snapshot{"status": string(oldStatus)},
		entity.Snapshot{"status": string(entity.AppointmentStatusCompleted)},
		actor.ID)

	u.log.Infof("Appointment completed: id=%s", id)
	return nil
}

func (u *appointmentUsecase) History(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentHistoryListResponse, error) {
	if _, err := u.loadVisible(u.db.WithContext(ctx), actor, id); err != nil {
		return nil, err
	}

	entries, err := u.historyRepo.FindByAppointmentID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to list history for appointment %s: %+v", id, err)
		return nil, err
	}

	return &dto.AppointmentHistoryListResponse{
		Entries: converter.HistoryEntriesToResponses(entries),
		Total:   len(entries),
	}, nil
}

// AvailableSlots returns the bookable working-window slots for a psychologist
// on a date. The slot width is fixed; each candidate is tested against the
// same half-open overlap rule the conflict checker uses.
func (u *appointmentUsecase) AvailableSlots(ctx context.Context, psychologistID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	psychologist, err := u.userRepo.FindByID(u.db.WithContext(ctx), psychologistID)
	if err != nil {
		u.log.Warnf("Failed to find psychologist %s: %+v", psychologistID, err)
		return nil, err
	}
	if psychologist == nil || psychologist.Role != entity.RolePsychologist {
		return nil, ErrPsychologistNotFound
	}

	existing, err := u.appointmentRepo.FindActiveByPsychologistAndDate(u.db.WithContext(ctx), psychologistID, day, nil)
	if err != nil {
		u.log.Warnf("Failed to load appointments for slots: %+v", err)
		return nil, err
	}

	slots := []string{}
	for start := workDayStartMinute; start < workDayEndMinute; start += slotMinutes {
		available := true
		for i := range existing {
			if existing[i].OverlapsWindow(start, start+slotMinutes) {
				available = false
				break
			}
		}
		if available {
			slots = append(slots, timeutil.FormatClock(start))
		}
	}

	return &dto.AvailableSlotsResponse{
		Date:           date,
		PsychologistID: psychologistID,
		AvailableSlots: slots,
	}, nil
}

func (u *appointmentUsecase) Statistics(ctx context.Context, actor entity.Actor) (*dto.AppointmentStatisticsResponse, error) {
	db := u.db.WithContext(ctx)
	now := u.now().In(u.loc)
	today := timeutil.NormalizeDate(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := timeutil.StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 6)
	monthStart := timeutil.StartOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, -1)

	count := func(filter *entity.AppointmentFilter) (int64, error) {
		return u.appointmentRepo.Count(db, scopedFilter(actor, filter))
	}

	total, err := count(&entity.AppointmentFilter{})
	if err != nil {
		return nil, err
	}
	todayCount, err := count(&entity.AppointmentFilter{StartDate: &today, EndDate: &today})
	if err != nil {
		return nil, err
	}
	upcoming, err := count(&entity.AppointmentFilter{StartDate: &tomorrow})
	if err != nil {
		return nil, err
	}
	thisWeek, err := count(&entity.AppointmentFilter{StartDate: &weekStart, EndDate: &weekEnd})
	if err != nil {
		return nil, err
	}
	thisMonth, err := count(&entity.AppointmentFilter{StartDate: &monthStart, EndDate: &monthEnd})
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int64{}
	for _, status := range []entity.AppointmentStatus{
		entity.AppointmentStatusScheduled,
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusInProgress,
		entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled,
		entity.AppointmentStatusNoShow,
	} {
		n, err := count(&entity.AppointmentFilter{Status: status})
		if err != nil {
			return nil, err
		}
		byStatus[string(status)] = n
	}

	byType := map[string]int64{}
	for _, appointmentType := range []entity.AppointmentType{
		entity.AppointmentTypeInPerson,
		entity.AppointmentTypeVirtual,
		entity.AppointmentTypePhone,
	} {
		n, err := count(&entity.AppointmentFilter{Type: appointmentType})
		if err != nil {
			return nil, err
		}
		byType[string(appointmentType)] = n
	}

	return &dto.AppointmentStatisticsResponse{
		Total:     total,
		Today:     todayCount,
		Upcoming:  upcoming,
		ByStatus:  byStatus,
		ByType:    byType,
		ThisWeek:  thisWeek,
		ThisMonth: thisMonth,
	}, nil
}

// createSnapshot captures the full submitted payload of a new appointment.
func createSnapshot(a *entity.Appointment) entity.Snapshot {
	snapshot := entity.Snapshot{
		"patient_id":       a.PatientID.String(),
		"psychologist_id":  a.PsychologistID.String(),
		"date":             a.Date.Format(timeutil.DateLayout),
		"time":             a.Time,
		"duration":         strconv.Itoa(a.Duration),
		"appointment_type": string(a.AppointmentType),
		"status":           string(a.Status),
		"priority":         string(a.Priority),
	}
	if a.Room != "" {
		snapshot["room"] = a.Room
	}
	if a.Reason != "" {
		snapshot["reason"] = a.Reason
	}
	return snapshot
}

// trackedSnapshot captures the fixed field set recorded around general edits.
func trackedSnapshot(a *entity.Appointment) entity.Snapshot {
	return entity.Snapshot{
		"date":             a.Date.Format(timeutil.DateLayout),
		"time":             a.Time,
		"status":           string(a.Status),
		"appointment_type": string(a.AppointmentType),
	}
}
