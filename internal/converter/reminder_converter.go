package converter

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
)

// ReminderToResponse converts an AppointmentReminder entity to its DTO.
func ReminderToResponse(reminder *entity.AppointmentReminder) *dto.AppointmentReminderResponse {
	if reminder == nil {
		return nil
	}

	return &dto.AppointmentReminderResponse{
		ID:            reminder.ID,
		AppointmentID: reminder.AppointmentID,
		ReminderType:  string(reminder.ReminderType),
		ScheduledFor:  reminder.ScheduledFor,
		Status:        string(reminder.Status),
		Message:       reminder.Message,
		SentAt:        reminder.SentAt,
		ErrorMessage:  reminder.ErrorMessage,
		CreatedAt:     reminder.CreatedAt,
	}
}

// RemindersToResponses converts a slice of reminders to DTOs.
func RemindersToResponses(reminders []entity.AppointmentReminder) []dto.AppointmentReminderResponse {
	responses := make([]dto.AppointmentReminderResponse, len(reminders))
	for i := range reminders {
		responses[i] = *ReminderToResponse(&reminders[i])
	}
	return responses
}
