package entity

import (
	"time"

	"github.com/vitaliscar/Proyecto-PRM/pkg/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus drives the appointment lifecycle state machine.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// ActiveAppointmentStatuses are the non-terminal statuses, the ones that still
// hold a calendar slot for conflict purposes.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}

// Valid reports whether s is a recognized appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether s no longer blocks scheduling.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// AppointmentType represents the modality of the session.
type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in_person"
	AppointmentTypeVirtual  AppointmentType = "virtual"
	AppointmentTypePhone    AppointmentType = "phone"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeInPerson, AppointmentTypeVirtual, AppointmentTypePhone:
		return true
	}
	return false
}

// AppointmentPriority is informational only; it has no state-machine effect.
type AppointmentPriority string

const (
	PriorityLow    AppointmentPriority = "low"
	PriorityNormal AppointmentPriority = "normal"
	PriorityHigh   AppointmentPriority = "high"
	PriorityUrgent AppointmentPriority = "urgent"
)

func (p AppointmentPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Appointment represents a scheduled session between a patient and a
// psychologist. The partial unique index on (psychologist, date, time) backs
// the overlap check at the database level for rows still holding a slot.
type Appointment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID      uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	PsychologistID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_appointments_slot,where:status = 'scheduled' OR status = 'confirmed' OR status = 'in_progress'" json:"psychologist_id"`

	Date     time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_appointments_slot,where:status = 'scheduled' OR status = 'confirmed' OR status = 'in_progress'" json:"date"`
	Time     string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_appointments_slot,where:status = 'scheduled' OR status = 'confirmed' OR status = 'in_progress'" json:"time"`
	Duration int       `gorm:"not null;default:60" json:"duration"`

	AppointmentType AppointmentType     `gorm:"type:varchar(20);not null;default:'in_person'" json:"appointment_type"`
	Status          AppointmentStatus   `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Priority        AppointmentPriority `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`

	Room        string `gorm:"type:varchar(100)" json:"room,omitempty"`
	VirtualLink string `gorm:"type:varchar(500)" json:"virtual_link,omitempty"`

	Reason       string `gorm:"type:text" json:"reason,omitempty"`
	Notes        string `gorm:"type:text" json:"notes,omitempty"`
	PrivateNotes string `gorm:"type:text" json:"-"`

	ReminderSent   bool       `gorm:"not null;default:false" json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	RequiresFollowup bool       `gorm:"not null;default:false" json:"requires_followup"`
	FollowupDate     *time.Time `gorm:"type:date" json:"followup_date,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`

	// Relationships
	Patient      Patient               `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Psychologist User                  `gorm:"foreignKey:PsychologistID" json:"psychologist,omitempty"`
	History      []AppointmentHistory  `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	Reminders    []AppointmentReminder `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"reminders,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Interval returns the appointment's half-open [start, end) interval in
// minutes of day.
func (a *Appointment) Interval() (start, end int, err error) {
	start, err = timeutil.ParseClock(a.Time)
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.Duration, nil
}

// OverlapsWindow reports whether the appointment intersects the half-open
// minute window [winStart, winEnd). Appointments with an unparseable time are
// treated as non-overlapping.
func (a *Appointment) OverlapsWindow(winStart, winEnd int) bool {
	start, end, err := a.Interval()
	if err != nil {
		return false
	}
	return timeutil.Overlaps(start, end, winStart, winEnd)
}

// EndTime returns the HH:MM at which the appointment ends.
func (a *Appointment) EndTime() string {
	_, end, err := a.Interval()
	if err != nil {
		return ""
	}
	return timeutil.FormatClock(end)
}

// CanBeCancelled reports whether the cancel transition is allowed.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}

// CanBeRescheduled reports whether the reschedule transition is allowed.
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}

// CanBeCompleted reports whether the complete transition is allowed.
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == AppointmentStatusInProgress
}

// StartsAt returns the full timestamp of the appointment start in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return timeutil.Combine(a.Date, a.Time, loc)
}
