package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReminderRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	ReminderType  string    `json:"reminder_type" validate:"required,oneof=email sms whatsapp call"`
	ScheduledFor  time.Time `json:"scheduled_for" validate:"required"`
	Message       string    `json:"message"`
}

type MarkReminderFailedRequest struct {
	ErrorMessage string `json:"error_message" validate:"required"`
}

// Response DTOs

type AppointmentReminderResponse struct {
	ID            int64      `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	ReminderType  string     `json:"reminder_type"`
	ScheduledFor  time.Time  `json:"scheduled_for"`
	Status        string     `json:"status"`
	Message       string     `json:"message,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AppointmentReminderListResponse struct {
	Reminders []AppointmentReminderResponse `json:"reminders"`
	Total     int                           `json:"total"`
}
