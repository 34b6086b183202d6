package events

import (
	"context"
	"time"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
)

const TypeAppointmentCreated = "appointment.created"

// Event is a booking fact published after the write that produced it has
// committed.
type Event struct {
	ID         string    `json:"eventId"`
	Type       string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	Key        string    `json:"-"`
	Payload    any       `json:"payload"`
}

type AppointmentCreated struct {
	AppointmentID        string    `json:"appointmentId"`
	AppointmentStartTime time.Time `json:"appointmentStartTime"`
	AppointmentEndTime   time.Time `json:"appointmentEndTime"`
	LocationID           string    `json:"locationId"`
	CustomerID           string    `json:"customerId"`
	VehicleID            string    `json:"vehicleId"`
}

func NewAppointmentCreated(a domain.Appointment, at time.Time) Event {
	return Event{
		ID:         "appointment.created:" + a.ID,
		Type:       TypeAppointmentCreated,
		OccurredAt: at.UTC(),
		Key:        a.LocationID,
		Payload: AppointmentCreated{
			AppointmentID:        a.ID,
			AppointmentStartTime: a.AppointmentStartTime,
			AppointmentEndTime:   a.AppointmentEndTime,
			LocationID:           a.LocationID,
			CustomerID:           a.CustomerID,
			VehicleID:            a.VehicleID,
		},
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
