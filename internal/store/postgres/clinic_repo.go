package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"clinica/backend/internal/domain"
	"clinica/backend/internal/store"
)

type ClinicRepo struct {
	db *bun.DB
}

func NewClinicRepo(db *bun.DB) *ClinicRepo {
	return &ClinicRepo{db: db}
}

func (r *ClinicRepo) CreateDoctor(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error) {
	m := domain.Doctor{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		Phone:     doctor.Phone,
		CreatedAt: doctor.CreatedAt,
	}

	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Doctor{}, translateConstraintError(err)
	}
	return m, nil
}

func (r *ClinicRepo) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var rows []domain.Doctor
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("d.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClinicRepo) CreatePatient(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	m := domain.Patient{
		ID:         patient.ID,
		Name:       patient.Name,
		DocumentID: patient.DocumentID,
		Phone:      patient.Phone,
		Email:      patient.Email,
		CreatedAt:  patient.CreatedAt,
	}

	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Patient{}, translateConstraintError(err)
	}
	return m, nil
}

func (r *ClinicRepo) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var rows []domain.Patient
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("p.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClinicRepo) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:        appt.ID,
		DoctorID:  appt.DoctorID,
		PatientID: appt.PatientID,
		Date:      appt.Date,
		Time:      appt.Time,
		Status:    appt.Status,
		CreatedAt: appt.CreatedAt,
	}

	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, translateConstraintError(err)
	}
	return m, nil
}

func (r *ClinicRepo) ListAppointments(ctx context.Context, onDate string) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	q := r.db.NewSelect().
		Model(&rows).
		Relation("Doctor").
		Relation("Patient")

	if onDate != "" {
		q = q.Where("a.appointment_date = ?", onDate).
			OrderExpr("a.appointment_time ASC")
	} else {
		q = q.OrderExpr("a.appointment_date DESC").
			OrderExpr("a.appointment_time ASC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClinicRepo) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) (domain.Appointment, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, translateConstraintError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}

	var out domain.Appointment
	err = r.db.NewSelect().
		Model(&out).
		Where("a.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// translateConstraintError maps postgres constraint violations onto the store
// sentinels: unique violations become ErrDuplicate and foreign key violations
// become ErrInvalidReference. Everything else passes through unchanged.
func translateConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrDuplicate
		case "23503":
			return store.ErrInvalidReference
		}
	}
	return err
}
