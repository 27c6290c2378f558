package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/repository"
	"github.com/vitaliscar/Proyecto-PRM/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:appointments_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Patient{},
		&entity.Appointment{},
		&entity.AppointmentHistory{},
		&entity.AppointmentReminder{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testClock is the frozen "now" all scheduling tests run against.
var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type appointmentFixture struct {
	db           *gorm.DB
	uc           AppointmentUsecase
	admin        entity.Actor
	psychologist *entity.User
	patient      *entity.Patient
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()

	adminUser := &entity.User{
		Cedula:    "V-10000001",
		Email:     "admin@clinic.test",
		Password:  "hashed",
		FirstName: "Ana",
		LastName:  "Admin",
		Role:      entity.RoleAdministrator,
		IsActive:  true,
	}
	psychologist := &entity.User{
		Cedula:    "V-10000002",
		Email:     "psy@clinic.test",
		Password:  "hashed",
		FirstName: "Pedro",
		LastName:  "Perez",
		Role:      entity.RolePsychologist,
		IsActive:  true,
	}
	if err := db.Create(adminUser).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if err := db.Create(psychologist).Error; err != nil {
		t.Fatalf("failed to seed psychologist: %v", err)
	}

	patient := &entity.Patient{
		Cedula:    "V-20000001",
		FirstName: "Maria",
		LastName:  "Gonzalez",
		BirthDate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Gender:    entity.GenderFemale,
		Phone:     "0412-0000000",
		Status:    entity.PatientStatusActive,
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}

	appointmentRepo := repository.NewAppointmentRepository()
	patientRepo := repository.NewPatientRepository()
	userRepo := repository.NewUserRepository()
	historyRepo := repository.NewAppointmentHistoryRepository()
	recorder := service.NewHistoryRecorder(log, historyRepo)

	uc := NewAppointmentUsecase(db, log, time.UTC, appointmentRepo, patientRepo, userRepo, historyRepo, recorder)
	uc.(*appointmentUsecase).now = func() time.Time { return testClock }

	return &appointmentFixture{
		db:           db,
		uc:           uc,
		admin:        entity.Actor{ID: adminUser.ID, Role: entity.RoleAdministrator},
		psychologist: psychologist,
		patient:      patient,
	}
}

func (f *appointmentFixture) createRequest(date, clock string, duration int) *dto.CreateAppointmentRequest {
	psychologistID := f.psychologist.ID
	return &dto.CreateAppointmentRequest{
		PatientID:      f.patient.ID,
		PsychologistID: &psychologistID,
		Date:           date,
		Time:           clock,
		Duration:       duration,
	}
}

func (f *appointmentFixture) mustCreate(t *testing.T, date, clock string, duration int) *dto.AppointmentResponse {
	t.Helper()
	appointment, err := f.uc.Create(context.Background(), f.admin, f.createRequest(date, clock, duration))
	if err != nil {
		t.Fatalf("failed to create appointment %s %s: %v", date, clock, err)
	}
	return appointment
}

func (f *appointmentFixture) historyFor(t *testing.T, id uuid.UUID) []entity.AppointmentHistory {
	t.Helper()
	var entries []entity.AppointmentHistory
	if err := f.db.Where("appointment_id = ?", id).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	return entries
}

func TestCreateAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	if appointment.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("status = %s, want scheduled", appointment.Status)
	}
	if appointment.Time != "10:00" || appointment.EndTime != "11:00" {
		t.Errorf("time window = %s-%s, want 10:00-11:00", appointment.Time, appointment.EndTime)
	}
	if !appointment.CanBeCancelled || !appointment.CanBeRescheduled {
		t.Error("new appointment should be cancellable and reschedulable")
	}

	entries := f.historyFor(t, appointment.ID)
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Action != entity.HistoryActionCreated {
		t.Errorf("history action = %s, want created", entries[0].Action)
	}
	if entries[0].NewData["time"] != "10:00" {
		t.Errorf("history new_data time = %q, want 10:00", entries[0].NewData["time"])
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)

	// 10:30-11:00 falls inside the booked 10:00-11:00 block.
	_, err := f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-10", "10:30", 30))
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("overlapping create error = %v, want ErrScheduleConflict", err)
	}

	// 11:00-11:30 starts exactly at the previous end: allowed.
	if _, err := f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-10", "11:00", 30)); err != nil {
		t.Fatalf("back-to-back create failed: %v", err)
	}

	// Same slot, different day: no conflict.
	if _, err := f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-11", "10:00", 60)); err != nil {
		t.Fatalf("different-day create failed: %v", err)
	}
}

func TestCreateAppointmentInPast(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.Create(context.Background(), f.admin, f.createRequest("2025-05-01", "10:00", 60))
	if !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("past create error = %v, want ErrPastDateTime", err)
	}

	// Earlier the same day is also in the past relative to the frozen clock.
	_, err = f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-01", "09:00", 60))
	if !errors.Is(err, ErrPastDateTime) {
		t.Fatalf("same-day past create error = %v, want ErrPastDateTime", err)
	}

	var count int64
	f.db.Model(&entity.Appointment{}).Count(&count)
	if count != 0 {
		t.Errorf("appointments persisted = %d, want 0", count)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.Create(context.Background(), f.admin, f.createRequest("10-06-2025", "10:00", 60))
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("bad date error = %v, want ErrInvalidDateFormat", err)
	}

	_, err = f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-10", "25:00", 60))
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("bad time error = %v, want ErrInvalidTimeFormat", err)
	}

	req := f.createRequest("2025-06-10", "10:00", 60)
	req.PatientID = uuid.New()
	if _, err := f.uc.Create(context.Background(), f.admin, req); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown patient error = %v, want ErrPatientNotFound", err)
	}

	req = f.createRequest("2025-06-10", "10:00", 60)
	unknown := uuid.New()
	req.PsychologistID = &unknown
	if _, err := f.uc.Create(context.Background(), f.admin, req); !errors.Is(err, ErrPsychologistNotFound) {
		t.Errorf("unknown psychologist error = %v, want ErrPsychologistNotFound", err)
	}

	// A receptionist cannot omit the psychologist.
	req = f.createRequest("2025-06-10", "10:00", 60)
	req.PsychologistID = nil
	receptionist := entity.Actor{ID: uuid.New(), Role: entity.RoleReceptionist}
	if _, err := f.uc.Create(context.Background(), receptionist, req); !errors.Is(err, ErrPsychologistRequired) {
		t.Errorf("missing psychologist error = %v, want ErrPsychologistRequired", err)
	}
}

func TestCreateDefaultsPsychologistToActor(t *testing.T) {
	f := newAppointmentFixture(t)

	req := f.createRequest("2025-06-10", "10:00", 60)
	req.PsychologistID = nil
	actor := entity.Actor{ID: f.psychologist.ID, Role: entity.RolePsychologist}

	appointment, err := f.uc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if appointment.PsychologistID != f.psychologist.ID {
		t.Errorf("psychologist = %s, want actor %s", appointment.PsychologistID, f.psychologist.ID)
	}
}

func TestAvailableSlots(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)

	slots, err := f.uc.AvailableSlots(context.Background(), f.psychologist.ID, "2025-06-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}

	want := []string{"09:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
	if len(slots.AvailableSlots) != len(want) {
		t.Fatalf("slots = %v, want %v", slots.AvailableSlots, want)
	}
	for i, slot := range want {
		if slots.AvailableSlots[i] != slot {
			t.Fatalf("slots = %v, want %v", slots.AvailableSlots, want)
		}
	}
}

func TestAvailableSlotsIgnoresCancelled(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)
	if err := f.uc.Cancel(context.Background(), f.admin, appointment.ID, "patient request"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	slots, err := f.uc.AvailableSlots(context.Background(), f.psychologist.ID, "2025-06-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	if len(slots.AvailableSlots) != 9 {
		t.Errorf("slots after cancel = %d, want all 9", len(slots.AvailableSlots))
	}
}

func TestAvailableSlotsOddDuration(t *testing.T) {
	f := newAppointmentFixture(t)

	// 10:30-12:00 blocks both the 10:00 and 11:00 candidates.
	f.mustCreate(t, "2025-06-10", "10:30", 90)

	slots, err := f.uc.AvailableSlots(context.Background(), f.psychologist.ID, "2025-06-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	for _, slot := range slots.AvailableSlots {
		if slot == "10:00" || slot == "11:00" {
			t.Errorf("slot %s should be blocked by 10:30-12:00 booking", slot)
		}
	}
	if len(slots.AvailableSlots) != 7 {
		t.Errorf("slots = %v, want 7 entries", slots.AvailableSlots)
	}
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	if err := f.uc.Cancel(context.Background(), f.admin, appointment.ID, "patient request"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	var stored entity.Appointment
	f.db.First(&stored, "id = ?", appointment.ID)
	if stored.Status != entity.AppointmentStatusCancelled {
		t.Errorf("status = %s, want cancelled", stored.Status)
	}

	entries := f.historyFor(t, appointment.ID)
	last := entries[len(entries)-1]
	if last.Action != entity.HistoryActionCancelled {
		t.Errorf("last history action = %s, want cancelled", last.Action)
	}
	if last.Description != "Appointment cancelled. Reason: patient request" {
		t.Errorf("history description = %q", last.Description)
	}

	// Cancel is not idempotent: the guard rejects a second attempt.
	if err := f.uc.Cancel(context.Background(), f.admin, appointment.ID, ""); !errors.Is(err, ErrCannotCancel) {
		t.Errorf("second cancel error = %v, want ErrCannotCancel", err)
	}

	// The freed slot can be booked again.
	if _, err := f.uc.Create(context.Background(), f.admin, f.createRequest("2025-06-10", "10:00", 60)); err != nil {
		t.Errorf("create after cancel failed: %v", err)
	}
}

func TestCompleteAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	req := &dto.CompleteAppointmentRequest{Notes: "session notes"}
	if err := f.uc.Complete(context.Background(), f.admin, appointment.ID, req); !errors.Is(err, ErrCannotComplete) {
		t.Fatalf("complete from scheduled error = %v, want ErrCannotComplete", err)
	}

	if _, err := f.uc.UpdateStatus(context.Background(), f.admin, appointment.ID, "in_progress"); err != nil {
		t.Fatalf("move to in_progress failed: %v", err)
	}

	if err := f.uc.Complete(context.Background(), f.admin, appointment.ID, req); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	var stored entity.Appointment
	f.db.First(&stored, "id = ?", appointment.ID)
	if stored.Status != entity.AppointmentStatusCompleted {
		t.Errorf("status = %s, want completed", stored.Status)
	}
	if stored.Notes != "session notes" {
		t.Errorf("notes = %q, want session notes", stored.Notes)
	}

	var patient entity.Patient
	f.db.First(&patient, "id = ?", f.patient.ID)
	if patient.LastAppointment == nil {
		t.Fatal("patient.last_appointment not set")
	}
	if !patient.LastAppointment.Equal(testClock) {
		t.Errorf("patient.last_appointment = %v, want %v", patient.LastAppointment, testClock)
	}

	completed := 0
	for _, entry := range f.historyFor(t, appointment.ID) {
		if entry.Action == entity.HistoryActionCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Errorf("completed history entries = %d, want 1", completed)
	}
}

func TestRescheduleAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	rescheduled, err := f.uc.Reschedule(context.Background(), f.admin, appointment.ID, &dto.RescheduleAppointmentRequest{
		Date: "2025-06-12",
		Time: "15:00",
	})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if rescheduled.Date != "2025-06-12" || rescheduled.Time != "15:00" {
		t.Errorf("rescheduled to %s %s, want 2025-06-12 15:00", rescheduled.Date, rescheduled.Time)
	}

	entries := f.historyFor(t, appointment.ID)
	last := entries[len(entries)-1]
	if last.Action != entity.HistoryActionRescheduled {
		t.Fatalf("last history action = %s, want rescheduled", last.Action)
	}
	if last.PreviousData["date"] != "2025-06-10" || last.PreviousData["time"] != "10:00" {
		t.Errorf("previous_data = %v", last.PreviousData)
	}
	if last.NewData["date"] != "2025-06-12" || last.NewData["time"] != "15:00" {
		t.Errorf("new_data = %v", last.NewData)
	}
}

func TestRescheduleConflictLeavesAppointmentUntouched(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)
	second := f.mustCreate(t, "2025-06-10", "12:00", 60)

	_, err := f.uc.Reschedule(context.Background(), f.admin, second.ID, &dto.RescheduleAppointmentRequest{
		Date: "2025-06-10",
		Time: "10:30",
	})
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("reschedule-into-conflict error = %v, want ErrScheduleConflict", err)
	}

	var stored entity.Appointment
	f.db.First(&stored, "id = ?", second.ID)
	if stored.Time != "12:00" {
		t.Errorf("time after failed reschedule = %s, want 12:00", stored.Time)
	}

	for _, entry := range f.historyFor(t, second.ID) {
		if entry.Action == entity.HistoryActionRescheduled {
			t.Error("failed reschedule must not leave a history entry")
		}
	}
}

func TestRescheduleGuard(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)
	if err := f.uc.Cancel(context.Background(), f.admin, appointment.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := f.uc.Reschedule(context.Background(), f.admin, appointment.ID, &dto.RescheduleAppointmentRequest{
		Date: "2025-06-12",
		Time: "15:00",
	})
	if !errors.Is(err, ErrCannotReschedule) {
		t.Errorf("reschedule cancelled error = %v, want ErrCannotReschedule", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	updated, err := f.uc.UpdateStatus(context.Background(), f.admin, appointment.ID, "confirmed")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != "confirmed" {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}

	if _, err := f.uc.UpdateStatus(context.Background(), f.admin, appointment.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("invalid status error = %v, want ErrInvalidStatus", err)
	}

	entries := f.historyFor(t, appointment.ID)
	last := entries[len(entries)-1]
	if last.Description != "Status changed from scheduled to confirmed" {
		t.Errorf("history description = %q", last.Description)
	}
	if last.PreviousData["status"] != "scheduled" || last.NewData["status"] != "confirmed" {
		t.Errorf("status snapshots = %v -> %v", last.PreviousData, last.NewData)
	}
}

func TestPsychologistScoping(t *testing.T) {
	f := newAppointmentFixture(t)

	other := &entity.User{
		Cedula:    "V-10000003",
		Email:     "other@clinic.test",
		Password:  "hashed",
		FirstName: "Olga",
		LastName:  "Otra",
		Role:      entity.RolePsychologist,
		IsActive:  true,
	}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("failed to seed second psychologist: %v", err)
	}

	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	otherActor := entity.Actor{ID: other.ID, Role: entity.RolePsychologist}
	if _, err := f.uc.Get(context.Background(), otherActor, appointment.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("cross-psychologist get error = %v, want ErrAppointmentNotFound", err)
	}

	listed, err := f.uc.List(context.Background(), otherActor, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 0 {
		t.Errorf("other psychologist sees %d appointments, want 0", listed.Total)
	}

	owner := entity.Actor{ID: f.psychologist.ID, Role: entity.RolePsychologist}
	listed, err = f.uc.List(context.Background(), owner, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 1 {
		t.Errorf("owner sees %d appointments, want 1", listed.Total)
	}
}

func TestUpdateRescheduleConflictCheck(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)
	second := f.mustCreate(t, "2025-06-10", "12:00", 60)

	newTime := "10:30"
	_, err := f.uc.Update(context.Background(), f.admin, second.ID, &dto.UpdateAppointmentRequest{Time: &newTime})
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("update-into-conflict error = %v, want ErrScheduleConflict", err)
	}

	// Non-temporal edits skip the conflict check entirely.
	room := "Room 3"
	updated, err := f.uc.Update(context.Background(), f.admin, second.ID, &dto.UpdateAppointmentRequest{Room: &room})
	if err != nil {
		t.Fatalf("room update failed: %v", err)
	}
	if updated.Room != "Room 3" {
		t.Errorf("room = %q, want Room 3", updated.Room)
	}
}

func TestStatistics(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)
	f.mustCreate(t, "2025-06-10", "12:00", 60)
	cancelled := f.mustCreate(t, "2025-06-11", "09:00", 60)
	if err := f.uc.Cancel(context.Background(), f.admin, cancelled.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stats, err := f.uc.Statistics(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.ByStatus["scheduled"] != 2 {
		t.Errorf("by_status[scheduled] = %d, want 2", stats.ByStatus["scheduled"])
	}
	if stats.ByStatus["cancelled"] != 1 {
		t.Errorf("by_status[cancelled] = %d, want 1", stats.ByStatus["cancelled"])
	}
	if stats.ByType["in_person"] != 3 {
		t.Errorf("by_type[in_person] = %d, want 3", stats.ByType["in_person"])
	}
	// Frozen clock is 2025-06-01; all three land in that month.
	if stats.ThisMonth != 3 {
		t.Errorf("this_month = %d, want 3", stats.ThisMonth)
	}
	if stats.Today != 0 {
		t.Errorf("today = %d, want 0", stats.Today)
	}
	if stats.Upcoming != 3 {
		t.Errorf("upcoming = %d, want 3", stats.Upcoming)
	}
}

func TestUpcoming(t *testing.T) {
	f := newAppointmentFixture(t)

	f.mustCreate(t, "2025-06-10", "10:00", 60)
	f.mustCreate(t, "2025-06-05", "09:00", 60)
	cancelled := f.mustCreate(t, "2025-06-03", "09:00", 60)
	if err := f.uc.Cancel(context.Background(), f.admin, cancelled.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	upcoming, err := f.uc.Upcoming(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if upcoming.Total != 2 {
		t.Fatalf("upcoming total = %d, want 2", upcoming.Total)
	}
	if upcoming.Appointments[0].Date != "2025-06-05" {
		t.Errorf("first upcoming = %s, want 2025-06-05", upcoming.Appointments[0].Date)
	}
}
