package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID      uuid.UUID  `json:"patient_id" validate:"required"`
	PsychologistID *uuid.UUID `json:"psychologist_id" validate:"omitempty"`

	Date     string `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Time     string `json:"time" validate:"required"` // Format: HH:MM
	Duration int    `json:"duration" validate:"omitempty,min=1,max=480"`

	AppointmentType string `json:"appointment_type" validate:"omitempty,oneof=in_person virtual phone"`
	Priority        string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`

	Room        string `json:"room" validate:"omitempty,max=100"`
	VirtualLink string `json:"virtual_link" validate:"omitempty,url"`

	Reason       string `json:"reason"`
	Notes        string `json:"notes"`
	PrivateNotes string `json:"private_notes"`
}

type UpdateAppointmentRequest struct {
	Date     *string `json:"date" validate:"omitempty"` // Format: YYYY-MM-DD
	Time     *string `json:"time" validate:"omitempty"` // Format: HH:MM
	Duration *int    `json:"duration" validate:"omitempty,min=1,max=480"`

	AppointmentType *string `json:"appointment_type" validate:"omitempty,oneof=in_person virtual phone"`
	Priority        *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`

	Room        *string `json:"room" validate:"omitempty,max=100"`
	VirtualLink *string `json:"virtual_link" validate:"omitempty,url"`

	Reason       *string `json:"reason"`
	Notes        *string `json:"notes"`
	PrivateNotes *string `json:"private_notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Time string `json:"time" validate:"required"` // Format: HH:MM
}

type CompleteAppointmentRequest struct {
	Notes            string `json:"notes"`
	PrivateNotes     string `json:"private_notes"`
	RequiresFollowup bool   `json:"requires_followup"`
	FollowupDate     string `json:"followup_date" validate:"omitempty"` // Format: YYYY-MM-DD
}

// ListAppointmentsQuery mirrors the supported query parameters of the list
// endpoint.
type ListAppointmentsQuery struct {
	Status         string `validate:"omitempty"`
	Type           string `validate:"omitempty"`
	Priority       string `validate:"omitempty"`
	PsychologistID string `validate:"omitempty,uuid"`
	PatientID      string `validate:"omitempty,uuid"`
	StartDate      string `validate:"omitempty"`
	EndDate        string `validate:"omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uuid.UUID     `json:"id"`
	Patient      *PatientResponse `json:"patient,omitempty"`
	PatientID    uuid.UUID     `json:"patient_id"`
	Psychologist *UserResponse `json:"psychologist,omitempty"`
	PsychologistID uuid.UUID   `json:"psychologist_id"`

	Date     string `json:"date"`
	Time     string `json:"time"`
	EndTime  string `json:"end_time"`
	Duration int    `json:"duration"`

	AppointmentType string `json:"appointment_type"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`

	Room        string `json:"room,omitempty"`
	VirtualLink string `json:"virtual_link,omitempty"`

	Reason       string `json:"reason,omitempty"`
	Notes        string `json:"notes,omitempty"`
	PrivateNotes string `json:"private_notes,omitempty"`

	ReminderSent   bool       `json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	RequiresFollowup bool   `json:"requires_followup"`
	FollowupDate     string `json:"followup_date,omitempty"`

	CanBeCancelled   bool `json:"can_be_cancelled"`
	CanBeRescheduled bool `json:"can_be_rescheduled"`

	History   []AppointmentHistoryResponse  `json:"history,omitempty"`
	Reminders []AppointmentReminderResponse `json:"reminders,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableSlotsResponse struct {
	Date           string    `json:"date"`
	PsychologistID uuid.UUID `json:"psychologist_id"`
	AvailableSlots []string  `json:"available_slots"`
}

type AppointmentHistoryResponse struct {
	ID           int64             `json:"id"`
	Action       string            `json:"action"`
	Description  string            `json:"description,omitempty"`
	PreviousData map[string]string `json:"previous_data,omitempty"`
	NewData      map[string]string `json:"new_data,omitempty"`
	CreatedBy    *UserResponse     `json:"created_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type AppointmentHistoryListResponse struct {
	Entries []AppointmentHistoryResponse `json:"entries"`
	Total   int                          `json:"total"`
}

type AppointmentStatisticsResponse struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	Upcoming  int64            `json:"upcoming"`
	ByStatus  map[string]int64 `json:"by_status"`
	ByType    map[string]int64 `json:"by_type"`
	ThisWeek  int64            `json:"this_week"`
	ThisMonth int64            `json:"this_month"`
}
