package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AppointmentStatus is the lifecycle state of an appointment. The repository
// allows any status to be overwritten with any other status; there is no
// transition table.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusAttended  AppointmentStatus = "attended"
)

// ParseAppointmentStatus reports whether s names a known status.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusAttended:
		return AppointmentStatus(s), true
	}
	return "", false
}

// Appointment links one doctor and one patient at a calendar date and
// time of day. Date is "2006-01-02" and Time is "15:04", both zero-padded
// so lexicographic order matches chronological order.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	DoctorID  uuid.UUID         `bun:"doctor_id,notnull,type:uuid" json:"doctorId"`
	PatientID uuid.UUID         `bun:"patient_id,notnull,type:uuid" json:"patientId"`
	Date      string            `bun:"appointment_date,notnull" json:"date"`
	Time      string            `bun:"appointment_time,notnull" json:"time"`
	Status    AppointmentStatus `bun:"status,notnull" json:"status"`
	CreatedAt time.Time         `bun:"created_at,notnull" json:"createdAt"`

	// Read-time projections populated by the store's join; never written back.
	Doctor  *Doctor  `bun:"rel:belongs-to,join:doctor_id=id" json:"doctor,omitempty"`
	Patient *Patient `bun:"rel:belongs-to,join:patient_id=id" json:"patient,omitempty"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}
