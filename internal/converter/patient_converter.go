package converter

import (
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/pkg/timeutil"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO.
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:            patient.ID,
		Cedula:        patient.Cedula,
		FirstName:     patient.FirstName,
		LastName:      patient.LastName,
		FullName:      patient.FullName(),
		BirthDate:     patient.BirthDate.Format(timeutil.DateLayout),
		Age:           timeutil.Age(patient.BirthDate, time.Now()),
		Gender:        patient.Gender,
		MaritalStatus: patient.MaritalStatus,

		Phone:   patient.Phone,
		Email:   patient.Email,
		Address: patient.Address,

		EmergencyContactName:         patient.EmergencyContactName,
		EmergencyContactPhone:        patient.EmergencyContactPhone,
		EmergencyContactRelationship: patient.EmergencyContactRelationship,

		MedicalHistory: patient.MedicalHistory,
		Allergies:      patient.Allergies,
		Medications:    patient.Medications,

		Status:          string(patient.Status),
		LastAppointment: patient.LastAppointment,

		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	}

	if patient.AssignedPsychologist != nil {
		response.AssignedPsychologist = UserToResponse(patient.AssignedPsychologist)
	}

	return response
}

// PatientsToResponses converts a slice of Patient entities to DTOs.
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
