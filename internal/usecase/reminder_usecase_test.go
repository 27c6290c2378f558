package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/repository"

	"github.com/google/uuid"
)

func newReminderFixture(t *testing.T) (*appointmentFixture, ReminderUsecase, *dto.AppointmentResponse) {
	t.Helper()

	f := newAppointmentFixture(t)
	appointment := f.mustCreate(t, "2025-06-10", "10:00", 60)

	uc := NewReminderUsecase(f.db, newTestLogger(),
		repository.NewAppointmentReminderRepository(),
		repository.NewAppointmentRepository())
	uc.(*reminderUsecase).now = func() time.Time { return testClock }

	return f, uc, appointment
}

func TestCreateReminder(t *testing.T) {
	f, uc, appointment := newReminderFixture(t)

	reminder, err := uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: appointment.ID,
		ReminderType:  "email",
		ScheduledFor:  time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC),
		Message:       "Your appointment is tomorrow at 10:00",
	})
	if err != nil {
		t.Fatalf("create reminder failed: %v", err)
	}
	if reminder.Status != string(entity.ReminderStatusPending) {
		t.Errorf("status = %s, want pending", reminder.Status)
	}

	_, err = uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: uuid.New(),
		ReminderType:  "email",
		ScheduledFor:  testClock,
	})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("unknown appointment error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestDueReminders(t *testing.T) {
	f, uc, appointment := newReminderFixture(t)

	past, err := uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: appointment.ID,
		ReminderType:  "sms",
		ScheduledFor:  testClock.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create reminder failed: %v", err)
	}
	if _, err := uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: appointment.ID,
		ReminderType:  "sms",
		ScheduledFor:  testClock.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create reminder failed: %v", err)
	}

	due, err := uc.Due(context.Background(), testClock)
	if err != nil {
		t.Fatalf("due failed: %v", err)
	}
	if due.Total != 1 {
		t.Fatalf("due total = %d, want 1", due.Total)
	}
	if due.Reminders[0].ID != past.ID {
		t.Errorf("due reminder = %d, want %d", due.Reminders[0].ID, past.ID)
	}

	// A sent reminder drops out of the due queue.
	if _, err := uc.MarkSent(context.Background(), past.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	due, err = uc.Due(context.Background(), testClock)
	if err != nil {
		t.Fatalf("due failed: %v", err)
	}
	if due.Total != 0 {
		t.Errorf("due total after send = %d, want 0", due.Total)
	}
}

func TestMarkSentIdempotent(t *testing.T) {
	f, uc, appointment := newReminderFixture(t)

	reminder, err := uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: appointment.ID,
		ReminderType:  "whatsapp",
		ScheduledFor:  testClock.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create reminder failed: %v", err)
	}

	sent, err := uc.MarkSent(context.Background(), reminder.ID)
	if err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	if sent.Status != string(entity.ReminderStatusSent) {
		t.Errorf("status = %s, want sent", sent.Status)
	}
	if sent.SentAt == nil || !sent.SentAt.Equal(testClock) {
		t.Errorf("sent_at = %v, want %v", sent.SentAt, testClock)
	}

	// Retries are no-ops and never flip a terminal reminder back.
	again, err := uc.MarkSent(context.Background(), reminder.ID)
	if err != nil {
		t.Fatalf("second mark sent failed: %v", err)
	}
	if again.Status != string(entity.ReminderStatusSent) {
		t.Errorf("status after retry = %s, want sent", again.Status)
	}

	failed, err := uc.MarkFailed(context.Background(), reminder.ID, "smtp timeout")
	if err != nil {
		t.Fatalf("mark failed errored: %v", err)
	}
	if failed.Status != string(entity.ReminderStatusSent) {
		t.Errorf("mark-failed on sent reminder changed status to %s", failed.Status)
	}
	if failed.ErrorMessage != "" {
		t.Errorf("error_message = %q, want empty", failed.ErrorMessage)
	}
}

func TestMarkFailed(t *testing.T) {
	f, uc, appointment := newReminderFixture(t)

	reminder, err := uc.Create(context.Background(), f.admin, &dto.CreateReminderRequest{
		AppointmentID: appointment.ID,
		ReminderType:  "call",
		ScheduledFor:  testClock.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create reminder failed: %v", err)
	}

	failed, err := uc.MarkFailed(context.Background(), reminder.ID, "no answer")
	if err != nil {
		t.Fatalf("mark failed errored: %v", err)
	}
	if failed.Status != string(entity.ReminderStatusFailed) {
		t.Errorf("status = %s, want failed", failed.Status)
	}
	if failed.ErrorMessage != "no answer" {
		t.Errorf("error_message = %q, want no answer", failed.ErrorMessage)
	}

	if _, err := uc.MarkSent(context.Background(), int64(99999)); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("unknown reminder error = %v, want ErrReminderNotFound", err)
	}
}
