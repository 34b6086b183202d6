package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
)

var (
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
)

// NotFoundError names the record that was looked up. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound converts ErrNotFound into a *NotFoundError for entity and id and
// passes every other error through.
func NotFound(err error, entity, id string) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// Store is the persistence collaborator of the booking services. Find
// methods treat zero-valued filter fields as unconstrained.
type Store interface {
	GetAppointment(ctx context.Context, id string) (domain.Appointment, error)
	FindAppointments(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)

	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	FindCustomers(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)

	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	GetLocation(ctx context.Context, id string) (domain.Location, error)
	FindLocations(ctx context.Context, filter LocationFilter) ([]domain.Location, error)
	CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error)

	// InBookingTransaction runs fn in a single transaction that also holds
	// the store-level booking lock for key, when the backend has one.
	InBookingTransaction(ctx context.Context, key string, fn func(ctx context.Context, tx BookingTx) error) error
}

type BookingTx interface {
	GetAppointment(ctx context.Context, id string) (domain.Appointment, error)
	// ListAppointments returns appointments with start < windowEnd and
	// end > windowStart.
	ListAppointments(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetLocation(ctx context.Context, id string) (domain.Location, error)
	CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error)
}

type AppointmentFilter struct {
	ID                   string
	LocationID           string
	CustomerID           string
	VehicleID            string
	AppointmentStartTime *time.Time
	AppointmentEndTime   *time.Time
}

type CustomerFilter struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *int64
}

type VehicleFilter struct {
	ID  string
	VIN string
}

type LocationFilter struct {
	ID      string
	Line1   string
	Line2   string
	City    string
	State   string
	ZipCode string
}
