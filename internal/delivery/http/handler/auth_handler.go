package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/middleware"
	"github.com/vitaliscar/Proyecto-PRM/internal/usecase"
	"github.com/vitaliscar/Proyecto-PRM/pkg/response"
	"github.com/vitaliscar/Proyecto-PRM/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid cedula or password")
		case usecase.ErrUserInactive:
			response.Forbidden(w, "User account is deactivated")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())

	var req dto.RefreshTokenRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.authUsecase.Logout(r.Context(), tokenID, req.RefreshToken); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidToken:
			response.Unauthorized(w, "Invalid or expired token")
		case usecase.ErrTokenRevoked:
			response.Unauthorized(w, "Token has been revoked")
		case usecase.ErrUserNotFound:
			response.Unauthorized(w, "User not found")
		case usecase.ErrUserInactive:
			response.Forbidden(w, "User account is deactivated")
		default:
			response.InternalServerError(w, "Failed to refresh token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to get current user")
		}
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.authUsecase.CreateUser(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrCedulaAlreadyExists:
			response.Conflict(w, "Cedula already registered")
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "Email already registered")
		case usecase.ErrInvalidRole:
			response.Error(w, http.StatusBadRequest, "Invalid role", nil)
		default:
			response.InternalServerError(w, "Failed to create user")
		}
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authUsecase.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		switch err {
		case usecase.ErrInvalidRole:
			response.Error(w, http.StatusBadRequest, "Invalid role", nil)
		default:
			response.InternalServerError(w, "Failed to list users")
		}
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *AuthHandler) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	user, err := h.authUsecase.ToggleUserStatus(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to change user status")
		}
		return
	}

	response.Success(w, http.StatusOK, "User status changed successfully", user)
}
