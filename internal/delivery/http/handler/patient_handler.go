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

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrDuplicateCedula:
			response.Conflict(w, "A patient with this cedula already exists")
		case usecase.ErrNotAPsychologist:
			response.Error(w, http.StatusBadRequest, "The assigned user is not an active psychologist", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid birth date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to create patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.Get(r.Context(), actor, id)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	patients, err := h.patientUsecase.List(
		r.Context(),
		actor,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("gender"),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), actor, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid birth date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to update patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdatePatientStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdateStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidStatus:
			response.ErrorWithCode(w, http.StatusBadRequest, "invalid_status", "Invalid patient status")
		default:
			response.InternalServerError(w, "Failed to update patient status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient status updated successfully", patient)
}

func (h *PatientHandler) AssignPsychologist(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.AssignPsychologistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.AssignPsychologist(r.Context(), actor, id, req.PsychologistID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrNotAPsychologist:
			response.Error(w, http.StatusBadRequest, "The assigned user is not an active psychologist", nil)
		default:
			response.InternalServerError(w, "Failed to assign psychologist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Psychologist assigned successfully", patient)
}

func (h *PatientHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	appointments, err := h.patientUsecase.Appointments(r.Context(), actor, id)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to list patient appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient appointments retrieved successfully", appointments)
}

func (h *PatientHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	stats, err := h.patientUsecase.Statistics(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to get patient statistics")
		return
	}

	response.Success(w, http.StatusOK, "Patient statistics retrieved successfully", stats)
}
