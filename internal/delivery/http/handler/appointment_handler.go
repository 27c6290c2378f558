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

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrPsychologistNotFound:
			response.NotFound(w, "Psychologist not found")
		case usecase.ErrPsychologistRequired:
			response.Error(w, http.StatusBadRequest, "A psychologist must be specified", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrPastDateTime:
			response.Error(w, http.StatusBadRequest, "Cannot schedule an appointment in the past", nil)
		case usecase.ErrScheduleConflict:
			response.Conflict(w, "The psychologist already has an appointment in this time range")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Get(r.Context(), actor, id)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	query := &dto.ListAppointmentsQuery{
		Status:         r.URL.Query().Get("status"),
		Type:           r.URL.Query().Get("appointment_type"),
		Priority:       r.URL.Query().Get("priority"),
		PsychologistID: r.URL.Query().Get("psychologist_id"),
		PatientID:      r.URL.Query().Get("patient_id"),
		StartDate:      r.URL.Query().Get("start_date"),
		EndDate:        r.URL.Query().Get("end_date"),
	}

	appointments, err := h.appointmentUsecase.List(r.Context(), actor, query)
	if err != nil {
		switch err {
		case usecase.ErrInvalidFilter, usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid filter parameter", nil)
		default:
			response.InternalServerError(w, "Failed to list appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.Today(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to list today's appointments")
		return
	}

	response.Success(w, http.StatusOK, "Today's appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.Upcoming(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to list upcoming appointments")
		return
	}

	response.Success(w, http.StatusOK, "Upcoming appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), actor, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrPastDateTime:
			response.Error(w, http.StatusBadRequest, "Cannot move an appointment into the past", nil)
		case usecase.ErrScheduleConflict:
			response.Conflict(w, "The psychologist already has an appointment in this time range")
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatus:
			response.ErrorWithCode(w, http.StatusBadRequest, "invalid_status", "Invalid appointment status")
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	// Body is optional: cancelling without a reason is allowed.
	var req dto.CancelAppointmentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), actor, id, req.Reason); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrCannotCancel:
			response.PreconditionFailed(w, "Appointment cannot be cancelled in its current status")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), actor, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrCannotReschedule:
			response.PreconditionFailed(w, "Appointment cannot be rescheduled in its current status")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrPastDateTime:
			response.Error(w, http.StatusBadRequest, "Cannot reschedule into the past", nil)
		case usecase.ErrScheduleConflict:
			response.Conflict(w, "The psychologist already has an appointment in this time range")
		default:
			response.InternalServerError(w, "Failed to reschedule appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CompleteAppointmentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.appointmentUsecase.Complete(r.Context(), actor, id, &req); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrCannotComplete:
			response.PreconditionFailed(w, "Only in-progress appointments can be completed")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid followup date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to complete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", nil)
}

func (h *AppointmentHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	history, err := h.appointmentUsecase.History(r.Context(), actor, id)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment history")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}

func (h *AppointmentHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	psychologistID, err := uuid.Parse(r.URL.Query().Get("psychologist_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid psychologist ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Date is required", nil)
		return
	}

	slots, err := h.appointmentUsecase.AvailableSlots(r.Context(), psychologistID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrPsychologistNotFound:
			response.NotFound(w, "Psychologist not found")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AppointmentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	stats, err := h.appointmentUsecase.Statistics(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointment statistics")
		return
	}

	response.Success(w, http.StatusOK, "Appointment statistics retrieved successfully", stats)
}
