package http

import (
	"net/http"

	"dentalcare-scheduling/internal/delivery/http/handler"
	"dentalcare-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
	rateLimiter        *middleware.RateLimiter
}

// NewRouter wires the HTTP surface. A nil authMiddleware disables
// authentication and owner checks; a nil rateLimiter disables rate limiting.
func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
		rateLimiter:        rateLimiter,
	}
}

// Setup registers the routes and wraps the whole router in the global
// middleware, so preflight and unmatched requests pass through it too.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Scheduling routes (protected, scoped to the caller)
	scheduling := api.NewRoute().Subrouter()
	if r.authMiddleware != nil {
		scheduling.Use(r.authMiddleware.Authenticate)
		scheduling.Use(middleware.RequireOwner)
	}

	// Dentist-scoped appointments
	dentist := scheduling.PathPrefix("/dentists/{dentistId}").Subrouter()
	dentist.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	dentist.HandleFunc("/appointments", r.appointmentHandler.GetDentistAppointments).Methods(http.MethodGet)
	dentist.HandleFunc("/appointments/stats", r.appointmentHandler.GetAppointmentStats).Methods(http.MethodGet)
	dentist.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	dentist.HandleFunc("/appointments/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	dentist.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)
	dentist.HandleFunc("/appointments/{id}/history", r.auditLogHandler.GetAppointmentHistory).Methods(http.MethodGet)
	dentist.HandleFunc("/calendar", r.appointmentHandler.GetCalendar).Methods(http.MethodGet)

	// Patient-scoped appointments
	scheduling.HandleFunc("/patients/{patientId}/appointments", r.appointmentHandler.GetPatientAppointments).Methods(http.MethodGet)

	// Single appointment, owner given in the query string
	scheduling.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)

	// Global middleware, innermost first
	var h http.Handler = r.router
	if r.rateLimiter != nil {
		h = r.rateLimiter.Handle(h)
	}
	h = r.corsMiddleware.Handle(h)
	h = r.loggingMiddleware.Handle(h)

	return h
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
