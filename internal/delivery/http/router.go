package http

import (
	"net/http"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/handler"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	reminderHandler    *handler.ReminderHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	reminderHandler *handler.ReminderHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		reminderHandler:    reminderHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// User management (admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdministrator())
	admin.HandleFunc("/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users", r.authHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/toggle-status", r.authHandler.ToggleUserStatus).Methods(http.MethodPost)

	// Patient routes (staff only)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireStaff())
	patients.HandleFunc("", r.patientHandler.Create).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientHandler.List).Methods(http.MethodGet)
	patients.HandleFunc("/statistics", r.patientHandler.Statistics).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Get).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	patients.HandleFunc("/{id}/status", r.patientHandler.UpdateStatus).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}/assign-psychologist", r.patientHandler.AssignPsychologist).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/appointments", r.patientHandler.Appointments).Methods(http.MethodGet)

	// Appointment routes (staff only)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequireStaff())
	appointments.HandleFunc("", r.appointmentHandler.Create).Methods(http.MethodPost)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/today", r.appointmentHandler.Today).Methods(http.MethodGet)
	appointments.HandleFunc("/upcoming", r.appointmentHandler.Upcoming).Methods(http.MethodGet)
	appointments.HandleFunc("/available-slots", r.appointmentHandler.AvailableSlots).Methods(http.MethodGet)
	appointments.HandleFunc("/statistics", r.appointmentHandler.Statistics).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Update).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/reschedule", r.appointmentHandler.Reschedule).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/history", r.appointmentHandler.History).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/reminders", r.reminderHandler.ListByAppointment).Methods(http.MethodGet)

	// Reminder routes (staff only)
	reminders := api.PathPrefix("/reminders").Subrouter()
	reminders.Use(r.authMiddleware.Authenticate)
	reminders.Use(middleware.RequireStaff())
	reminders.HandleFunc("", r.reminderHandler.Create).Methods(http.MethodPost)
	reminders.HandleFunc("/due", r.reminderHandler.Due).Methods(http.MethodGet)
	reminders.HandleFunc("/{id}/mark-sent", r.reminderHandler.MarkSent).Methods(http.MethodPost)
	reminders.HandleFunc("/{id}/mark-failed", r.reminderHandler.MarkFailed).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
