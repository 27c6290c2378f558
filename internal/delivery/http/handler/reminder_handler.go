package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/middleware"
	"github.com/vitaliscar/Proyecto-PRM/internal/usecase"
	"github.com/vitaliscar/Proyecto-PRM/pkg/response"
	"github.com/vitaliscar/Proyecto-PRM/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
	validator       *validator.CustomValidator
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase, validator *validator.CustomValidator) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
		validator:       validator,
	}
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reminder, err := h.reminderUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to create reminder")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Reminder created successfully", reminder)
}

func (h *ReminderHandler) ListByAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	reminders, err := h.reminderUsecase.ListByAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to list reminders")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}

// Due serves the delivery worker's poll. An optional as_of parameter
// (RFC 3339) overrides the current time.
func (h *ReminderHandler) Due(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid as_of, use RFC 3339", nil)
			return
		}
		asOf = parsed
	}

	reminders, err := h.reminderUsecase.Due(r.Context(), asOf)
	if err != nil {
		response.InternalServerError(w, "Failed to list due reminders")
		return
	}

	response.Success(w, http.StatusOK, "Due reminders retrieved successfully", reminders)
}

func (h *ReminderHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid reminder ID", nil)
		return
	}

	reminder, err := h.reminderUsecase.MarkSent(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrReminderNotFound:
			response.NotFound(w, "Reminder not found")
		default:
			response.InternalServerError(w, "Failed to mark reminder as sent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reminder marked as sent", reminder)
}

func (h *ReminderHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid reminder ID", nil)
		return
	}

	var req dto.MarkReminderFailedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reminder, err := h.reminderUsecase.MarkFailed(r.Context(), id, req.ErrorMessage)
	if err != nil {
		switch err {
		case usecase.ErrReminderNotFound:
			response.NotFound(w, "Reminder not found")
		default:
			response.InternalServerError(w, "Failed to mark reminder as failed")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reminder marked as failed", reminder)
}
