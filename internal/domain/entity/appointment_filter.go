package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by the repository layer to avoid coupling with delivery DTOs.
// Dates are normalized calendar dates (midnight UTC).
type AppointmentFilter struct {
	PsychologistID *uuid.UUID
	PatientID      *uuid.UUID
	Status         AppointmentStatus
	Type           AppointmentType
	Priority       AppointmentPriority
	StartDate      *time.Time
	EndDate        *time.Time
}
