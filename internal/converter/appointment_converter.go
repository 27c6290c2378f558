package converter

import (
	"github.com/google/uuid"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/pkg/timeutil"
)

// AppointmentToResponse converts an Appointment entity to its DTO.
// Private notes are serialized only when includePrivate is true
// (psychologist and administrator actors).
func AppointmentToResponse(appointment *entity.Appointment, includePrivate bool) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:             appointment.ID,
		PatientID:      appointment.PatientID,
		PsychologistID: appointment.PsychologistID,

		Date:     appointment.Date.Format(timeutil.DateLayout),
		Time:     appointment.Time,
		EndTime:  appointment.EndTime(),
		Duration: appointment.Duration,

		AppointmentType: string(appointment.AppointmentType),
		Status:          string(appointment.Status),
		Priority:        string(appointment.Priority),

		Room:        appointment.Room,
		VirtualLink: appointment.VirtualLink,

		Reason: appointment.Reason,
		Notes:  appointment.Notes,

		ReminderSent:   appointment.ReminderSent,
		ReminderSentAt: appointment.ReminderSentAt,

		RequiresFollowup: appointment.RequiresFollowup,

		CanBeCancelled:   appointment.CanBeCancelled(),
		CanBeRescheduled: appointment.CanBeRescheduled(),

		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}

	if includePrivate {
		response.PrivateNotes = appointment.PrivateNotes
	}
	if appointment.FollowupDate != nil {
		response.FollowupDate = appointment.FollowupDate.Format(timeutil.DateLayout)
	}
	if appointment.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&appointment.Patient)
	}
	if appointment.Psychologist.ID != uuid.Nil {
		response.Psychologist = UserToResponse(&appointment.Psychologist)
	}
	if len(appointment.History) > 0 {
		response.History = HistoryEntriesToResponses(appointment.History)
	}
	if len(appointment.Reminders) > 0 {
		response.Reminders = RemindersToResponses(appointment.Reminders)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs.
func AppointmentsToResponses(appointments []entity.Appointment, includePrivate bool) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], includePrivate)
	}
	return responses
}
