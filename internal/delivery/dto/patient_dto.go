package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Cedula        string `json:"cedula" validate:"required,min=7,max=20"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	BirthDate     string `json:"birth_date" validate:"required"` // Format: YYYY-MM-DD
	Gender        string `json:"gender" validate:"required,oneof=male female other"`
	MaritalStatus string `json:"marital_status" validate:"omitempty,oneof=single married divorced widowed other"`

	Phone   string `json:"phone" validate:"required,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty"`

	EmergencyContactName         string `json:"emergency_contact_name" validate:"omitempty,max=200"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" validate:"omitempty,max=100"`

	MedicalHistory string `json:"medical_history"`
	Allergies      string `json:"allergies"`
	Medications    string `json:"medications"`

	AssignedPsychologistID *uuid.UUID `json:"assigned_psychologist_id" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,max=100"`
	LastName      *string `json:"last_name" validate:"omitempty,max=100"`
	BirthDate     *string `json:"birth_date" validate:"omitempty"` // Format: YYYY-MM-DD
	Gender        *string `json:"gender" validate:"omitempty,oneof=male female other"`
	MaritalStatus *string `json:"marital_status" validate:"omitempty,oneof=single married divorced widowed other"`

	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty"`

	EmergencyContactName         *string `json:"emergency_contact_name" validate:"omitempty,max=200"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship" validate:"omitempty,max=100"`

	MedicalHistory *string `json:"medical_history"`
	Allergies      *string `json:"allergies"`
	Medications    *string `json:"medications"`
}

type UpdatePatientStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive discharged"`
}

type AssignPsychologistRequest struct {
	PsychologistID uuid.UUID `json:"psychologist_id" validate:"required"`
}

// Response DTOs

type PatientResponse struct {
	ID            uuid.UUID `json:"id"`
	Cedula        string    `json:"cedula"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FullName      string    `json:"full_name"`
	BirthDate     string    `json:"birth_date"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	MaritalStatus string    `json:"marital_status,omitempty"`

	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`

	EmergencyContactName         string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        string `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship,omitempty"`

	MedicalHistory string `json:"medical_history,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	Medications    string `json:"medications,omitempty"`

	Status               string        `json:"status"`
	AssignedPsychologist *UserResponse `json:"assigned_psychologist,omitempty"`
	LastAppointment      *time.Time    `json:"last_appointment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type PatientStatisticsResponse struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByGender     map[string]int64 `json:"by_gender"`
	NewThisMonth int64            `json:"new_this_month"`
}
