package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinica/backend/internal/domain"
	"clinica/backend/internal/service/scheduling"
)

type schedulingService interface {
	RegisterDoctor(ctx context.Context, in scheduling.RegisterDoctorInput) (domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	RegisterPatient(ctx context.Context, in scheduling.RegisterPatientInput) (domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	ScheduleAppointment(ctx context.Context, in scheduling.ScheduleAppointmentInput) (domain.Appointment, error)
	ListAppointments(ctx context.Context, onDate string) ([]domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, newStatus string) (domain.Appointment, error)
}

type checkoutGateway interface {
	CreateSession(ctx context.Context, planID, userID, email string) (string, error)
}

// Server exposes the scheduling core and the checkout gateway as a JSON API
// for the web frontend.
type Server struct {
	scheduling schedulingService
	checkout   checkoutGateway
	log        *slog.Logger
}

func NewServer(scheduling schedulingService, checkout checkoutGateway, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		scheduling: scheduling,
		checkout:   checkout,
		log:        log.With(slog.String("component", "http.api")),
	}
}

// Router mounts every route behind bearer auth. Identity is established by
// the external auth provider; this layer only verifies its token. Extra
// middleware (request timeouts, access logging) is supplied by the caller.
func (s *Server) Router(jwtSecret string, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)

	api := r.Group("/api/v1", BearerAuth(jwtSecret))
	{
		api.POST("/doctors", s.createDoctor)
		api.GET("/doctors", s.listDoctors)
		api.POST("/patients", s.createPatient)
		api.GET("/patients", s.listPatients)
		api.POST("/appointments", s.createAppointment)
		api.GET("/appointments", s.listAppointments)
		api.PATCH("/appointments/:id/status", s.updateAppointmentStatus)
		api.POST("/checkout", s.createCheckoutSession)
	}

	return r
}
