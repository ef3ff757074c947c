package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinica/backend/internal/domain"
	"clinica/backend/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service is the scheduling core. It validates input shape locally and
// delegates referential and uniqueness checks to the store, surfacing the
// store's sentinel errors unchanged. No call is retried.
type Service struct {
	repo store.ClinicRepository
}

func NewService(repo store.ClinicRepository) *Service {
	return &Service{repo: repo}
}

type RegisterDoctorInput struct {
	Name      string
	Specialty string
	Phone     string
}

func (s *Service) RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (domain.Doctor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Doctor{}, validationError("name is required")
	}
	specialty := strings.TrimSpace(in.Specialty)
	if specialty == "" {
		return domain.Doctor{}, validationError("specialty is required")
	}

	return s.repo.CreateDoctor(ctx, domain.Doctor{
		Name:      name,
		Specialty: specialty,
		Phone:     strings.TrimSpace(in.Phone),
	})
}

func (s *Service) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

type RegisterPatientInput struct {
	Name       string
	DocumentID string
	Phone      string
	Email      string
}

func (s *Service) RegisterPatient(ctx context.Context, in RegisterPatientInput) (domain.Patient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Patient{}, validationError("name is required")
	}
	documentID := strings.TrimSpace(in.DocumentID)
	if documentID == "" {
		return domain.Patient{}, validationError("document_id is required")
	}

	return s.repo.CreatePatient(ctx, domain.Patient{
		Name:       name,
		DocumentID: documentID,
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
	})
}

func (s *Service) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.repo.ListPatients(ctx)
}

type ScheduleAppointmentInput struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      string
	Time      string
}

// ScheduleAppointment creates an appointment in the pending state. Whether
// the doctor and patient exist is checked by the store's foreign keys, not
// here; an unresolved reference surfaces as store.ErrInvalidReference.
// Double-booking the same doctor slot is allowed.
func (s *Service) ScheduleAppointment(ctx context.Context, in ScheduleAppointmentInput) (domain.Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return domain.Appointment{}, validationError("doctor_id is required")
	}
	if in.PatientID == uuid.Nil {
		return domain.Appointment{}, validationError("patient_id is required")
	}

	date, err := canonicalDate(in.Date)
	if err != nil {
		return domain.Appointment{}, validationError("date must be YYYY-MM-DD")
	}
	timeOfDay, err := canonicalTime(in.Time)
	if err != nil {
		return domain.Appointment{}, validationError("time must be HH:MM")
	}

	return s.repo.CreateAppointment(ctx, domain.Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Date:      date,
		Time:      timeOfDay,
		Status:    domain.StatusPending,
	})
}

// ListAppointments returns every appointment ordered by date descending then
// time ascending, or a single day ordered by time ascending when onDate is
// given. Each entry carries the joined doctor/patient display fields.
func (s *Service) ListAppointments(ctx context.Context, onDate string) ([]domain.Appointment, error) {
	if onDate != "" {
		date, err := canonicalDate(onDate)
		if err != nil {
			return nil, validationError("date must be YYYY-MM-DD")
		}
		onDate = date
	}
	return s.repo.ListAppointments(ctx, onDate)
}

// UpdateAppointmentStatus overwrites the appointment's status. Any known
// status may replace any other; only unknown status names are rejected.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, newStatus string) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	status, ok := domain.ParseAppointmentStatus(strings.TrimSpace(newStatus))
	if !ok {
		return domain.Appointment{}, validationError("status must be one of pending, confirmed, cancelled, attended")
	}
	return s.repo.UpdateAppointmentStatus(ctx, id, status)
}

func canonicalDate(s string) (string, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return d.Format(dateLayout), nil
}

func canonicalTime(s string) (string, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
