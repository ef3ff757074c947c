package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"clinica/backend/internal/domain"
	"clinica/backend/internal/store"
)

func TestPostgresIntegration_ClinicRepo(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("CLINICA_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("CLINICA_TEST_DATABASE_URL not set")
	}

	db, err := Open(databaseURL, PoolConfig{MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}

	repo := NewClinicRepo(db)

	var createdAppointments []uuid.UUID
	var createdPatients []uuid.UUID
	var createdDoctors []uuid.UUID
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, id := range createdAppointments {
			_, _ = db.NewDelete().Model((*domain.Appointment)(nil)).Where("id = ?", id).Exec(cleanupCtx)
		}
		for _, id := range createdPatients {
			_, _ = db.NewDelete().Model((*domain.Patient)(nil)).Where("id = ?", id).Exec(cleanupCtx)
		}
		for _, id := range createdDoctors {
			_, _ = db.NewDelete().Model((*domain.Doctor)(nil)).Where("id = ?", id).Exec(cleanupCtx)
		}
	})

	doctor, err := repo.CreateDoctor(ctx, domain.Doctor{Name: "Ana Ruiz", Specialty: "cardiology", Phone: "555-0101"})
	if err != nil {
		t.Fatalf("CreateDoctor error: %v", err)
	}
	createdDoctors = append(createdDoctors, doctor.ID)
	if doctor.ID == uuid.Nil || doctor.CreatedAt.IsZero() {
		t.Fatalf("doctor id/timestamp not assigned: %+v", doctor)
	}

	documentID := "doc-" + randomHex(t, 8)
	patient, err := repo.CreatePatient(ctx, domain.Patient{Name: "Luis Vega", DocumentID: documentID})
	if err != nil {
		t.Fatalf("CreatePatient error: %v", err)
	}
	createdPatients = append(createdPatients, patient.ID)

	t.Run("duplicate document id rejected", func(t *testing.T) {
		_, err := repo.CreatePatient(ctx, domain.Patient{Name: "Impostor", DocumentID: documentID})
		if !errors.Is(err, store.ErrDuplicate) {
			t.Fatalf("err = %v, want %v", err, store.ErrDuplicate)
		}
	})

	t.Run("unresolved doctor reference rejected", func(t *testing.T) {
		_, err := repo.CreateAppointment(ctx, domain.Appointment{
			DoctorID:  uuid.New(),
			PatientID: patient.ID,
			Date:      "2024-06-01",
			Time:      "08:00",
			Status:    domain.StatusPending,
		})
		if !errors.Is(err, store.ErrInvalidReference) {
			t.Fatalf("err = %v, want %v", err, store.ErrInvalidReference)
		}
	})

	mustSchedule := func(date, tod string) domain.Appointment {
		t.Helper()
		appt, err := repo.CreateAppointment(ctx, domain.Appointment{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			Date:      date,
			Time:      tod,
			Status:    domain.StatusPending,
		})
		if err != nil {
			t.Fatalf("CreateAppointment(%s %s) error: %v", date, tod, err)
		}
		createdAppointments = append(createdAppointments, appt.ID)
		return appt
	}

	apptA := mustSchedule("2024-06-02", "10:00")
	apptB := mustSchedule("2024-06-01", "08:00")
	apptC := mustSchedule("2024-06-02", "09:00")

	t.Run("list orders by date desc then time asc", func(t *testing.T) {
		rows, err := repo.ListAppointments(ctx, "")
		if err != nil {
			t.Fatalf("ListAppointments error: %v", err)
		}

		pos := map[uuid.UUID]int{}
		for i, a := range rows {
			pos[a.ID] = i
		}
		posC, okC := pos[apptC.ID]
		posA, okA := pos[apptA.ID]
		posB, okB := pos[apptB.ID]
		if !okA || !okB || !okC {
			t.Fatalf("fixture appointments missing from list")
		}
		if !(posC < posA && posA < posB) {
			t.Fatalf("order = C:%d A:%d B:%d, want C < A < B", posC, posA, posB)
		}
	})

	t.Run("list joins doctor and patient display fields", func(t *testing.T) {
		rows, err := repo.ListAppointments(ctx, "2024-06-02")
		if err != nil {
			t.Fatalf("ListAppointments error: %v", err)
		}

		var found bool
		for _, a := range rows {
			if a.ID != apptC.ID {
				continue
			}
			found = true
			if a.Doctor == nil || a.Doctor.Name != "Ana Ruiz" || a.Doctor.Specialty != "cardiology" {
				t.Fatalf("doctor projection = %+v", a.Doctor)
			}
			if a.Patient == nil || a.Patient.Name != "Luis Vega" {
				t.Fatalf("patient projection = %+v", a.Patient)
			}
		}
		if !found {
			t.Fatalf("date-filtered list missing fixture appointment")
		}
	})

	t.Run("date filter orders by time asc", func(t *testing.T) {
		rows, err := repo.ListAppointments(ctx, "2024-06-02")
		if err != nil {
			t.Fatalf("ListAppointments error: %v", err)
		}

		pos := map[uuid.UUID]int{}
		for i, a := range rows {
			pos[a.ID] = i
			if a.Date != "2024-06-02" {
				t.Fatalf("appointment on %s leaked into filtered list", a.Date)
			}
		}
		if _, ok := pos[apptB.ID]; ok {
			t.Fatalf("appointment from another date leaked into filtered list")
		}
		if !(pos[apptC.ID] < pos[apptA.ID]) {
			t.Fatalf("order = C:%d A:%d, want C < A", pos[apptC.ID], pos[apptA.ID])
		}
	})

	t.Run("status overwrite in both directions", func(t *testing.T) {
		updated, err := repo.UpdateAppointmentStatus(ctx, apptA.ID, domain.StatusConfirmed)
		if err != nil {
			t.Fatalf("UpdateAppointmentStatus error: %v", err)
		}
		if updated.Status != domain.StatusConfirmed {
			t.Fatalf("status = %q, want %q", updated.Status, domain.StatusConfirmed)
		}
		if updated.Date != apptA.Date || updated.Time != apptA.Time || updated.DoctorID != apptA.DoctorID {
			t.Fatalf("unrelated fields changed: %+v", updated)
		}

		updated, err = repo.UpdateAppointmentStatus(ctx, apptA.ID, domain.StatusPending)
		if err != nil {
			t.Fatalf("UpdateAppointmentStatus error: %v", err)
		}
		if updated.Status != domain.StatusPending {
			t.Fatalf("status = %q, want %q", updated.Status, domain.StatusPending)
		}
	})

	t.Run("status update on unknown id", func(t *testing.T) {
		_, err := repo.UpdateAppointmentStatus(ctx, uuid.New(), domain.StatusConfirmed)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
		}
	})

	t.Run("doctor listing is newest first and stable", func(t *testing.T) {
		second, err := repo.CreateDoctor(ctx, domain.Doctor{Name: "Eva Soto", Specialty: "dermatology"})
		if err != nil {
			t.Fatalf("CreateDoctor error: %v", err)
		}
		createdDoctors = append(createdDoctors, second.ID)

		first, err := repo.ListDoctors(ctx)
		if err != nil {
			t.Fatalf("ListDoctors error: %v", err)
		}
		pos := map[uuid.UUID]int{}
		for i, d := range first {
			pos[d.ID] = i
		}
		if !(pos[second.ID] < pos[doctor.ID]) {
			t.Fatalf("newest doctor not first: second:%d first:%d", pos[second.ID], pos[doctor.ID])
		}

		again, err := repo.ListDoctors(ctx)
		if err != nil {
			t.Fatalf("ListDoctors error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("list changed between calls without writes: %d vs %d", len(first), len(again))
		}
		for i := range first {
			if first[i].ID != again[i].ID {
				t.Fatalf("list order changed between calls without writes at %d", i)
			}
		}
	})
}

func randomHex(t *testing.T, n int) string {
	t.Helper()
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(buf)
}
