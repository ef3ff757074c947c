package store

import (
	"context"

	"github.com/google/uuid"

	"clinica/backend/internal/domain"
)

// ClinicRepository is the boundary to the remote record store. Each method is
// a single independent request; there is no transaction spanning entities and
// no client-side retry. Implementations translate storage failures into the
// sentinel errors in this package and pass everything else through.
type ClinicRepository interface {
	CreateDoctor(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)

	CreatePatient(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)

	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	// ListAppointments returns appointments with doctor and patient display
	// fields joined in. With onDate set ("2006-01-02") it returns that day
	// ordered by time ascending; with onDate empty it returns everything
	// ordered by date descending then time ascending.
	ListAppointments(ctx context.Context, onDate string) ([]domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) (domain.Appointment, error)
}
