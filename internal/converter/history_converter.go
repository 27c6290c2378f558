package converter

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
)

// HistoryEntryToResponse converts an AppointmentHistory entity to its DTO.
func HistoryEntryToResponse(entry *entity.AppointmentHistory) *dto.AppointmentHistoryResponse {
	if entry == nil {
		return nil
	}

	return &dto.AppointmentHistoryResponse{
		ID:           entry.ID,
		Action:       string(entry.Action),
		Description:  entry.Description,
		PreviousData: entry.PreviousData,
		NewData:      entry.NewData,
		CreatedBy:    UserToResponse(entry.CreatedBy),
		CreatedAt:    entry.CreatedAt,
	}
}

// HistoryEntriesToResponses converts a slice of history entries to DTOs.
func HistoryEntriesToResponses(entries []entity.AppointmentHistory) []dto.AppointmentHistoryResponse {
	responses := make([]dto.AppointmentHistoryResponse, len(entries))
	for i := range entries {
		responses[i] = *HistoryEntryToResponse(&entries[i])
	}
	return responses
}
