package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID                   string    `bun:"id,pk" json:"id"`
	AppointmentStartTime time.Time `bun:"appointment_start_time,notnull" json:"appointmentStartTime"`
	AppointmentEndTime   time.Time `bun:"appointment_end_time,notnull" json:"appointmentEndTime"`
	LocationID           string    `bun:"location_id,notnull" json:"locationId"`
	CustomerID           string    `bun:"customer_id,notnull" json:"customerId"`
	VehicleID            string    `bun:"vehicle_id,notnull" json:"vehicleId"`
	CreatedAt            time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	return stamp(&a.ID, &a.CreatedAt)
}

// AppointmentWithDetails is an appointment with its customer, vehicle and
// location hydrated.
type AppointmentWithDetails struct {
	Appointment
	Location Location `json:"location"`
	Customer Customer `json:"customer"`
	Vehicle  Vehicle  `json:"vehicle"`
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// now is truncated to microseconds so a record reads back from either
// dialect exactly as it was written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (a *Appointment) AfterScanRow(ctx context.Context) error {
	a.AppointmentStartTime = a.AppointmentStartTime.UTC()
	a.AppointmentEndTime = a.AppointmentEndTime.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	return nil
}
