package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinica/backend/internal/service/billing"
	"clinica/backend/internal/service/scheduling"
	"clinica/backend/internal/store"
)

type createDoctorRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

func (s *Server) createDoctor(c *gin.Context) {
	log := s.log.With(slog.String("route", "createDoctor"))

	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	doctor, err := s.scheduling.RegisterDoctor(c.Request.Context(), scheduling.RegisterDoctorInput{
		Name:      req.Name,
		Specialty: req.Specialty,
		Phone:     req.Phone,
	})
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}

	log.Info("doctor registered", slog.String("doctor_id", doctor.ID.String()))
	c.JSON(http.StatusCreated, doctor)
}

func (s *Server) listDoctors(c *gin.Context) {
	log := s.log.With(slog.String("route", "listDoctors"))

	doctors, err := s.scheduling.ListDoctors(c.Request.Context())
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

type createPatientRequest struct {
	Name       string `json:"name"`
	DocumentID string `json:"documentId"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

func (s *Server) createPatient(c *gin.Context) {
	log := s.log.With(slog.String("route", "createPatient"))

	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patient, err := s.scheduling.RegisterPatient(c.Request.Context(), scheduling.RegisterPatientInput{
		Name:       req.Name,
		DocumentID: req.DocumentID,
		Phone:      req.Phone,
		Email:      req.Email,
	})
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}

	log.Info("patient registered", slog.String("patient_id", patient.ID.String()))
	c.JSON(http.StatusCreated, patient)
}

func (s *Server) listPatients(c *gin.Context) {
	log := s.log.With(slog.String("route", "listPatients"))

	patients, err := s.scheduling.ListPatients(c.Request.Context())
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

type createAppointmentRequest struct {
	DoctorID  string `json:"doctorId"`
	PatientID string `json:"patientId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func (s *Server) createAppointment(c *gin.Context) {
	log := s.log.With(slog.String("route", "createAppointment"))

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_doctor_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId must be a UUID"})
		return
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_patient_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientId must be a UUID"})
		return
	}

	appt, err := s.scheduling.ScheduleAppointment(c.Request.Context(), scheduling.ScheduleAppointmentInput{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}

	log.Info(
		"appointment scheduled",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("doctor_id", appt.DoctorID.String()),
		slog.String("patient_id", appt.PatientID.String()),
		slog.String("date", appt.Date),
		slog.String("time", appt.Time),
	)
	c.JSON(http.StatusCreated, appt)
}

func (s *Server) listAppointments(c *gin.Context) {
	log := s.log.With(slog.String("route", "listAppointments"))

	appts, err := s.scheduling.ListAppointments(c.Request.Context(), c.Query("date"))
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}

	log.Debug("appointments listed", slog.Int("count", len(appts)))
	c.JSON(http.StatusOK, appts)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateAppointmentStatus(c *gin.Context) {
	log := s.log.With(slog.String("route", "updateAppointmentStatus"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_appointment_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment id must be a UUID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	appt, err := s.scheduling.UpdateAppointmentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.respondSchedulingError(c, log, err)
		return
	}

	log.Info(
		"appointment status updated",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("status", string(appt.Status)),
	)
	c.JSON(http.StatusOK, appt)
}

type checkoutRequest struct {
	PlanID string `json:"planId"`
	UserID string `json:"userId"`
}

func (s *Server) createCheckoutSession(c *gin.Context) {
	log := s.log.With(slog.String("route", "createCheckoutSession"))

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, email := callerIdentity(c)
	if req.UserID != userID {
		log.Warn("checkout user mismatch", slog.String("user_id", userID))
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	url, err := s.checkout.CreateSession(c.Request.Context(), req.PlanID, userID, email)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			log.Warn("unknown plan", slog.String("plan_id", req.PlanID))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
			return
		}
		log.Error("checkout session failed", slog.Any("err", err), slog.String("plan_id", req.PlanID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment processing failed"})
		return
	}

	log.Info("checkout session created", slog.String("plan_id", req.PlanID), slog.String("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// respondSchedulingError maps the service error taxonomy onto HTTP statuses:
// validation 400, missing reference 404/422, duplicate 409, everything else
// is an opaque 500.
func (s *Server) respondSchedulingError(c *gin.Context, log *slog.Logger, err error) {
	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, store.ErrDuplicate):
		log.Info("duplicate record rejected")
		c.JSON(http.StatusConflict, gin.H{"error": "a record with that document id already exists"})
	case errors.Is(err, store.ErrInvalidReference):
		log.Info("unresolved reference rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "referenced doctor or patient does not exist"})
	case errors.Is(err, store.ErrNotFound):
		log.Info("record not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		log.Error("request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
