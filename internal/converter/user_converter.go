package converter

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Cedula:    user.Cedula,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Phone:     user.Phone,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UsersToResponses converts a slice of User entities to UserResponse DTOs.
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}
