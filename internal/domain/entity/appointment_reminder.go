package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReminderType is the delivery channel of a reminder. Actual delivery belongs
// to an external worker; this system only stores and selects reminders.
type ReminderType string

const (
	ReminderTypeEmail    ReminderType = "email"
	ReminderTypeSMS      ReminderType = "sms"
	ReminderTypeWhatsApp ReminderType = "whatsapp"
	ReminderTypeCall     ReminderType = "call"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTypeEmail, ReminderTypeSMS, ReminderTypeWhatsApp, ReminderTypeCall:
		return true
	}
	return false
}

// ReminderStatus transitions pending -> sent or pending -> failed exactly once.
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSent    ReminderStatus = "sent"
	ReminderStatusFailed  ReminderStatus = "failed"
)

// AppointmentReminder is a scheduled notification for an appointment.
type AppointmentReminder struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"appointment_id"`
	ReminderType  ReminderType   `gorm:"type:varchar(20);not null" json:"reminder_type"`
	ScheduledFor  time.Time      `gorm:"not null;index" json:"scheduled_for"`
	Status        ReminderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Message       string         `gorm:"type:text" json:"message,omitempty"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	ErrorMessage  string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AppointmentReminder) TableName() string {
	return "appointment_reminders"
}

// IsPending reports whether the reminder is still awaiting dispatch.
func (r *AppointmentReminder) IsPending() bool {
	return r.Status == ReminderStatusPending
}
