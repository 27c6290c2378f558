package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/vitaliscar/Proyecto-PRM/internal/converter"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"
	"github.com/vitaliscar/Proyecto-PRM/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDuplicateCedula  = errors.New("a patient with this cedula already exists")
	ErrNotAPsychologist = errors.New("the assigned user is not an active psychologist")
)

type PatientUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context, actor entity.Actor, status, gender, search string) (*dto.PatientListResponse, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, status string) (*dto.PatientResponse, error)
	AssignPsychologist(ctx context.Context, actor entity.Actor, id uuid.UUID, psychologistID uuid.UUID) (*dto.PatientResponse, error)
	Appointments(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentListResponse, error)
	Statistics(ctx context.Context, actor entity.Actor) (*dto.PatientStatisticsResponse, error)
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
) PatientUsecase {
	return &patientUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
	}
}

// scopePatient narrows patient visibility: a psychologist only sees patients
// assigned to them.
func (u *patientUsecase) visible(actor entity.Actor, patient *entity.Patient) bool {
	if !actor.IsPsychologist() {
		return true
	}
	return patient.AssignedPsychologistID != nil && *patient.AssignedPsychologistID == actor.ID
}

func (u *patientUsecase) validatePsychologist(db *gorm.DB, id uuid.UUID) error {
	psychologist, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find psychologist %s: %+v", id, err)
		return err
	}
	if psychologist == nil || psychologist.Role != entity.RolePsychologist || !psychologist.IsActive {
		return ErrNotAPsychologist
	}
	return nil
}

func (u *patientUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	birthDate, err := timeutil.ParseDate(req.BirthDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	if req.AssignedPsychologistID != nil {
		if err := u.validatePsychologist(u.db.WithContext(ctx), *req.AssignedPsychologistID); err != nil {
			return nil, err
		}
	}

	patient := &entity.Patient{
		Cedula:        req.Cedula,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BirthDate:     birthDate,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,

		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,

		EmergencyContactName:         req.EmergencyContactName,
		EmergencyContactPhone:        req.EmergencyContactPhone,
		EmergencyContactRelationship: req.EmergencyContactRelationship,

		MedicalHistory: req.MedicalHistory,
		Allergies:      req.Allergies,
		Medications:    req.Medications,

		Status:                 entity.PatientStatusActive,
		AssignedPsychologistID: req.AssignedPsychologistID,
		CreatedByID:            &actor.ID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isUniqueViolation(err, "") {
			return nil, ErrDuplicateCedula
		}
		if isForeignKeyViolation(err) {
			return nil, ErrNotAPsychologist
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit patient creation: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: id=%s, cedula=%s", patient.ID, patient.Cedula)

	full, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patient.ID)
	if err != nil || full == nil {
		return converter.PatientToResponse(patient), nil
	}
	return converter.PatientToResponse(full), nil
}

func (u *patientUsecase) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !u.visible(actor, patient) {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) List(ctx context.Context, actor entity.Actor, status, gender, search string) (*dto.PatientListResponse, error) {
	filter := &repository.PatientFilter{
		Status: entity.PatientStatus(status),
		Gender: gender,
		Search: search,
	}
	if actor.IsPsychologist() {
		id := actor.ID
		filter.PsychologistID = &id
	}

	patients, err := u.patientRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *patientUsecase) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !u.visible(actor, patient) {
		return nil, ErrPatientNotFound
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		birthDate, err := timeutil.ParseDate(*req.BirthDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		patient.BirthDate = birthDate
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.MaritalStatus != nil {
		patient.MaritalStatus = *req.MaritalStatus
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.EmergencyContactRelationship != nil {
		patient.EmergencyContactRelationship = *req.EmergencyContactRelationship
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.Medications != nil {
		patient.Medications = *req.Medications
	}

	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit patient update: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, status string) (*dto.PatientResponse, error) {
	newStatus := entity.PatientStatus(status)
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !u.visible(actor, patient) {
		return nil, ErrPatientNotFound
	}

	patient.Status = newStatus
	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient status %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit patient status update: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient status updated: id=%s, status=%s", id, status)
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) AssignPsychologist(ctx context.Context, actor entity.Actor, id uuid.UUID, psychologistID uuid.UUID) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if err := u.validatePsychologist(tx, psychologistID); err != nil {
		return nil, err
	}

	patient.AssignedPsychologistID = &psychologistID
	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to assign psychologist to patient %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit psychologist assignment: %+v", err)
		return nil, err
	}

	u.log.Infof("Psychologist assigned: patient=%s, psychologist=%s", id, psychologistID)

	full, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || full == nil {
		return converter.PatientToResponse(patient), nil
	}
	return converter.PatientToResponse(full), nil
}

func (u *patientUsecase) Appointments(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentListResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !u.visible(actor, patient) {
		return nil, ErrPatientNotFound
	}

	filter := &entity.AppointmentFilter{PatientID: &id}
	if actor.IsPsychologist() {
		psychologistID := actor.ID
		filter.PsychologistID = &psychologistID
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", id, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, actor.CanViewPrivateNotes()),
		Total:        len(appointments),
	}, nil
}

func (u *patientUsecase) Statistics(ctx context.Context, actor entity.Actor) (*dto.PatientStatisticsResponse, error) {
	db := u.db.WithContext(ctx)

	scope := func(filter *repository.PatientFilter) *repository.PatientFilter {
		if actor.IsPsychologist() {
			id := actor.ID
			filter.PsychologistID = &id
		}
		return filter
	}

	total, err := u.patientRepo.Count(db, scope(&repository.PatientFilter{}))
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int64{}
	for _, status := range []entity.PatientStatus{
		entity.PatientStatusActive,
		entity.PatientStatusInactive,
		entity.PatientStatusDischarged,
	} {
		n, err := u.patientRepo.Count(db, scope(&repository.PatientFilter{Status: status}))
		if err != nil {
			return nil, err
		}
		byStatus[string(status)] = n
	}

	byGender := map[string]int64{}
	for _, gender := range []string{entity.GenderMale, entity.GenderFemale, entity.GenderOther} {
		n, err := u.patientRepo.Count(db, scope(&repository.PatientFilter{Gender: gender}))
		if err != nil {
			return nil, err
		}
		byGender[gender] = n
	}

	monthStart := timeutil.StartOfMonth(time.Now())
	newThisMonth, err := u.patientRepo.Count(db, scope(&repository.PatientFilter{CreatedAfter: &monthStart}))
	if err != nil {
		return nil, err
	}

	return &dto.PatientStatisticsResponse{
		Total:        total,
		ByStatus:     byStatus,
		ByGender:     byGender,
		NewThisMonth: newThisMonth,
	}, nil
}
